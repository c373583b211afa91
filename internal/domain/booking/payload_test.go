package booking

import (
	"testing"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

func TestBuildPayload(t *testing.T) {
	userID := uuid.New()
	excursionID := uuid.New()
	sel := inventory.Selection{
		DateKey:        "2025-05-15",
		Category:       "Standard",
		Quantity:       3,
		UnitPriceMinor: 2000,
		Currency:       "BYN",
	}

	req := BuildPayload(userID, excursionID, sel)

	if req.UserID != userID.String() || req.ExcursionID != excursionID.String() {
		t.Fatalf("unexpected ids: %+v", req)
	}
	if req.TicketCategory != "Standard" || req.DateTime != "2025-05-15" || req.Quantity != 3 {
		t.Fatalf("unexpected selection fields: %+v", req)
	}
	if req.Status != StatusPending {
		t.Fatalf("expected Pending status, got %s", req.Status)
	}
	if req.Total != "60.00" || req.Currency != "BYN" {
		t.Fatalf("expected total 60.00 BYN, got %s %s", req.Total, req.Currency)
	}
}

func TestBuildPayloadTotalIsExact(t *testing.T) {
	// 12.50 x 3 = 37.50 with no float drift.
	sel := inventory.Selection{
		DateKey:        "2025-05-15",
		Category:       "Child",
		Quantity:       3,
		UnitPriceMinor: 1250,
		Currency:       "BYN",
	}

	req := BuildPayload(uuid.New(), uuid.New(), sel)
	if req.Total != "37.50" {
		t.Fatalf("expected 37.50, got %s", req.Total)
	}
}
