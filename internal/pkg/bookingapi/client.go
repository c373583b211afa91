package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/booking"
	"github.com/excursio/excursio-client/internal/domain/excursion"
)

const defaultTimeout = 10 * time.Second

// Client represents the Booking API HTTP client.
type Client struct {
	baseURL string
	token   string
	ua      string
	http    *http.Client
}

// NewClient creates a new Booking API client. token may be empty for public
// endpoints; booking submission requires it.
func NewClient(baseURL, token string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// ListExcursions fetches all excursions.
func (c *Client) ListExcursions(ctx context.Context) ([]*excursion.Excursion, error) {
	resp, err := c.do(ctx, http.MethodGet, "/excursions", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.httpError("list excursions", resp)
	}

	var dtos []excursion.DTO
	if err := decodeData(resp.Body, &dtos); err != nil {
		return nil, fmt.Errorf("booking api response error: %w", err)
	}

	excursions := make([]*excursion.Excursion, 0, len(dtos))
	for _, dto := range dtos {
		exc, err := excursion.FromDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("booking api response error: %w", err)
		}
		excursions = append(excursions, exc)
	}
	return excursions, nil
}

// GetExcursion fetches one excursion with its inventory snapshot.
func (c *Client) GetExcursion(ctx context.Context, id uuid.UUID) (*excursion.Excursion, error) {
	resp, err := c.do(ctx, http.MethodGet, "/excursions/"+id.String(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrExcursionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.httpError("get excursion", resp)
	}

	var dto excursion.DTO
	if err := decodeData(resp.Body, &dto); err != nil {
		return nil, fmt.Errorf("booking api response error: %w", err)
	}
	return excursion.FromDTO(dto)
}

// CreateBooking submits a booking request. Any rejection the server answers
// with becomes a *RemoteRejection carrying the server's message verbatim.
func (c *Client) CreateBooking(ctx context.Context, req booking.Request) (*booking.Confirmation, error) {
	resp, err := c.do(ctx, http.MethodPost, "/bookings", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &RemoteRejection{
			StatusCode: resp.StatusCode,
			Message:    readServerMessage(resp.Body, resp.StatusCode),
		}
	}

	var conf booking.Confirmation
	if err := decodeData(resp.Body, &conf); err != nil {
		return nil, fmt.Errorf("booking api response error: %w", err)
	}
	return &conf, nil
}

// ListBookings fetches the user's bookings.
func (c *Client) ListBookings(ctx context.Context, userID uuid.UUID) ([]booking.Booking, error) {
	resp, err := c.do(ctx, http.MethodGet, "/bookings?userId="+userID.String(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.httpError("list bookings", resp)
	}

	var bookings []booking.Booking
	if err := decodeData(resp.Body, &bookings); err != nil {
		return nil, fmt.Errorf("booking api response error: %w", err)
	}
	return bookings, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("booking api request error: client is nil")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, fmt.Errorf("booking api config error: base_url is empty")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("booking api request error: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("booking api request error: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if method == http.MethodPost {
		// Lets the server deduplicate a manually retried submission.
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyRequestError(ctx, err)
	}
	return resp, nil
}

func (c *Client) httpError(op string, resp *http.Response) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("booking api %s http error: status=%d body=<failed to read body: %v>", op, resp.StatusCode, readErr)
	}
	return fmt.Errorf("booking api %s http error: status=%d body=%s", op, resp.StatusCode, string(body))
}

// envelope is the Booking API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
	// Some endpoints answer errors with a bare message object.
	Message string `json:"message"`
}

func decodeData(body io.Reader, v interface{}) error {
	var env envelope
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	dataDec := json.NewDecoder(bytes.NewReader(env.Data))
	dataDec.UseNumber()
	return dataDec.Decode(v)
}

func readServerMessage(body io.Reader, status int) string {
	raw, err := io.ReadAll(body)
	if err != nil || len(raw) == 0 {
		return fmt.Sprintf("booking rejected with status %d", status)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Error != nil && env.Error.Message != "" {
			return env.Error.Message
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("booking api timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("booking api network error: %w", err)
	}
	return fmt.Errorf("booking api request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	return false
}
