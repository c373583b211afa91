package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/booking"
	"github.com/excursio/excursio-client/internal/domain/excursion"
	"github.com/excursio/excursio-client/internal/domain/inventory"
)

func seedStore(t *testing.T) (*MemoryStore, uuid.UUID) {
	t.Helper()

	store := NewMemoryStore()
	id := uuid.New()
	exc := &excursion.Excursion{
		ID:    id,
		Title: "Обзорная экскурсия",
		City:  "Минск",
		Inventory: inventory.Inventory{
			"2025-05-15": {
				"Standard": {Count: 5, PriceMinor: 2000, Currency: "BYN"},
				"Child":    {Count: 2, PriceMinor: 1000, Currency: "BYN"},
			},
		},
	}
	if err := store.PutExcursion(context.Background(), exc); err != nil {
		t.Fatalf("seed excursion: %v", err)
	}
	return store, id
}

func validRequest(excursionID uuid.UUID) booking.Request {
	return booking.Request{
		UserID:         uuid.NewString(),
		ExcursionID:    excursionID.String(),
		TicketCategory: "Standard",
		DateTime:       "2025-05-15",
		Quantity:       3,
		Status:         booking.StatusPending,
		Total:          "60.00",
		Currency:       "BYN",
	}
}

func postBooking(t *testing.T, router http.Handler, req booking.Request) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	rec := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, httpReq)
	return rec
}

func TestGetExcursion(t *testing.T) {
	store, id := seedStore(t)
	router := NewHandler(store).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/excursions/"+id.String(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool          `json:"success"`
		Data    excursion.DTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.Title != "Обзорная экскурсия" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	slots, ok := resp.Data.AvailableTicketsByDate["2025-05-15"]
	if !ok || slots["Standard"].Count != 5 {
		t.Fatalf("unexpected inventory in DTO: %+v", resp.Data.AvailableTicketsByDate)
	}
}

func TestGetExcursionNotFound(t *testing.T) {
	store, _ := seedStore(t)
	router := NewHandler(store).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/excursions/"+uuid.NewString(), nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateBookingSuccessDecrementsInventory(t *testing.T) {
	store, id := seedStore(t)
	router := NewHandler(store).Routes()

	rec := postBooking(t, router, validRequest(id))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			BookingID uuid.UUID      `json:"bookingId"`
			Status    booking.Status `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.BookingID == uuid.Nil || resp.Data.Status != booking.StatusPending {
		t.Fatalf("unexpected confirmation: %+v", resp.Data)
	}

	exc, err := store.GetExcursion(context.Background(), id)
	if err != nil {
		t.Fatalf("reload excursion: %v", err)
	}
	slot, _ := exc.Inventory.Slot("2025-05-15", "Standard")
	if slot.Count != 2 {
		t.Fatalf("expected count decremented to 2, got %d", slot.Count)
	}
}

func TestCreateBookingInsufficientInventory(t *testing.T) {
	store, id := seedStore(t)
	router := NewHandler(store).Routes()

	req := validRequest(id)
	req.TicketCategory = "Child"
	req.Quantity = 4
	req.Total = "40.00"

	rec := postBooking(t, router, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Message != "Доступно: 2 билетов" {
		t.Fatalf("expected availability message, got %q", resp.Error.Message)
	}
}

func TestCreateBookingStaleTotalRejected(t *testing.T) {
	store, id := seedStore(t)
	router := NewHandler(store).Routes()

	req := validRequest(id)
	req.Total = "45.00" // client computed against an old price

	rec := postBooking(t, router, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

// brokenStore fails CreateBooking the way a lost database would.
type brokenStore struct {
	Store
}

func (brokenStore) CreateBooking(context.Context, booking.Request) (*booking.Booking, error) {
	return nil, errors.New("pq: connection refused")
}

func TestCreateBookingStoreFailureHidesErrorText(t *testing.T) {
	_, id := seedStore(t)
	router := NewHandler(brokenStore{}).Routes()

	rec := postBooking(t, router, validRequest(id))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("pq:")) {
		t.Fatalf("raw store error leaked to the client: %s", rec.Body.String())
	}
}

func TestCreateBookingValidation(t *testing.T) {
	store, id := seedStore(t)
	router := NewHandler(store).Routes()

	req := validRequest(id)
	req.Currency = "GBP"

	rec := postBooking(t, router, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp.Error.Details["currency"]; !ok {
		t.Fatalf("expected currency detail, got %+v", resp.Error.Details)
	}
}

func TestListBookingsFiltersByUser(t *testing.T) {
	store, id := seedStore(t)
	router := NewHandler(store).Routes()

	first := validRequest(id)
	first.Quantity = 1
	first.Total = "20.00"
	if rec := postBooking(t, router, first); rec.Code != http.StatusCreated {
		t.Fatalf("first booking failed: %d %s", rec.Code, rec.Body.String())
	}
	second := validRequest(id)
	second.Quantity = 1
	second.Total = "20.00"
	if rec := postBooking(t, router, second); rec.Code != http.StatusCreated {
		t.Fatalf("second booking failed: %d %s", rec.Code, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings?userId="+first.UserID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []booking.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected one booking for user, got %d", len(resp.Data))
	}
	if resp.Data[0].UserID.String() != first.UserID {
		t.Fatalf("wrong user's booking returned: %+v", resp.Data[0])
	}
}

// Only one of many racing bookings may win the last tickets.
func TestCreateBookingConcurrentLastTickets(t *testing.T) {
	store, id := seedStore(t)

	const workers = 10

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := validRequest(id)
			req.TicketCategory = "Child"
			req.Quantity = 2
			req.Total = "20.00"
			_, err := store.CreateBooking(context.Background(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, rejected int
	for err := range results {
		switch {
		case err == nil:
			won++
		default:
			var insufficient *InsufficientError
			if !errors.As(err, &insufficient) {
				t.Fatalf("unexpected error: %v", err)
			}
			rejected++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner, got %d (rejected %d)", won, rejected)
	}

	exc, err := store.GetExcursion(context.Background(), id)
	if err != nil {
		t.Fatalf("reload excursion: %v", err)
	}
	slot, _ := exc.Inventory.Slot("2025-05-15", "Child")
	if slot.Count != 0 {
		t.Fatalf("expected slot exhausted, got %d", slot.Count)
	}
}
