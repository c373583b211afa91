package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/excursio/excursio-client/internal/config"
	"github.com/excursio/excursio-client/internal/domain/booking"
	"github.com/excursio/excursio-client/internal/domain/inventory"
	"github.com/excursio/excursio-client/internal/domain/session"
	"github.com/excursio/excursio-client/internal/pkg/bookingapi"
	"github.com/excursio/excursio-client/internal/pkg/database"
	"github.com/excursio/excursio-client/internal/pkg/logger"
	"github.com/excursio/excursio-client/internal/pkg/snapshotcache"
)

const usage = `Usage: bookctl <command> [flags]

Commands:
  login       store a session (user id + bearer token)
  logout      discard the stored session
  excursions  list excursions
  show        show availability for an excursion
  book        book tickets for an excursion
  bookings    list your bookings
`

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	var err error

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, cfg, os.Args[2:])
	case "logout":
		err = runLogout(ctx, cfg)
	case "excursions":
		err = runExcursions(ctx, cfg)
	case "show":
		err = runShow(ctx, cfg, os.Args[2:])
	case "book":
		err = runBook(ctx, cfg, os.Args[2:])
	case "bookings":
		err = runBookings(ctx, cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	userID := fs.String("user", "", "user id (uuid)")
	token := fs.String("token", "", "bearer token issued by the booking API")
	name := fs.String("name", "", "display name")
	role := fs.String("role", "visitor", "role")
	fs.Parse(args)

	id, err := uuid.Parse(*userID)
	if err != nil {
		return fmt.Errorf("invalid -user: %w", err)
	}
	if *token == "" {
		return errors.New("-token is required")
	}

	expiresAt, err := session.TokenExpiry(*token)
	if err != nil {
		return err
	}

	sess := &session.Session{
		UserID:      id,
		DisplayName: *name,
		Role:        *role,
		Token:       *token,
		ExpiresAt:   expiresAt,
	}
	if err := session.NewFileRepository(cfg.SessionFile).Save(ctx, sess); err != nil {
		return err
	}

	fmt.Println("Logged in as", id)
	if !expiresAt.IsZero() {
		fmt.Println("Token expires at", expiresAt.Format(time.RFC3339))
	}
	return nil
}

func runLogout(ctx context.Context, cfg *config.Config) error {
	if err := session.NewFileRepository(cfg.SessionFile).Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runExcursions(ctx context.Context, cfg *config.Config) error {
	client := newClient(cfg, "")
	excursions, err := client.ListExcursions(ctx)
	if err != nil {
		return err
	}

	for _, exc := range excursions {
		dates := inventory.AvailableDates(exc.Inventory)
		status := "распродано"
		if len(dates) > 0 {
			status = fmt.Sprintf("%d даты", len(dates))
		}
		fmt.Printf("%s  %s (%s) — %s\n", exc.ID, exc.Title, exc.City, status)
	}
	return nil
}

func runShow(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: bookctl show <excursion-id>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid excursion id: %w", err)
	}

	svc, closeCache := newService(cfg, "")
	defer closeCache()

	exc, err := svc.Excursion(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n%s\n\n", exc.Title, exc.City, exc.Description)

	dates := inventory.AvailableDates(exc.Inventory)
	if len(dates) == 0 {
		fmt.Println("Нет доступных дат")
		return nil
	}

	for _, date := range dates {
		fmt.Println(date)
		for _, category := range inventory.CategoriesForDate(exc.Inventory, date) {
			slot, _ := exc.Inventory.Slot(date, category)
			if slot.Count == 0 {
				fmt.Printf("  %-12s распродано\n", category)
				continue
			}
			fmt.Printf("  %-12s %s %s, осталось %d\n",
				category, inventory.FormatPrice(slot.PriceMinor), slot.Currency, slot.Count)
		}
	}
	return nil
}

func runBook(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	date := fs.String("date", "", "date key (YYYY-MM-DD)")
	category := fs.String("category", "", "ticket category")
	quantity := fs.Int("qty", 1, "ticket quantity")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")

	if len(args) < 1 {
		return errors.New("usage: bookctl book <excursion-id> -date ... -category ... -qty N")
	}
	excursionID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid excursion id: %w", err)
	}
	fs.Parse(args[1:])

	sess, err := loadSession(ctx, cfg)
	if err != nil {
		return err
	}

	svc, closeCache := newService(cfg, sess.Token)
	defer closeCache()

	inv, err := svc.Snapshot(ctx, excursionID)
	if err != nil {
		return err
	}
	flow := booking.NewFlow(inv)

	// The quantity input clamps rather than rejects, matching the booking
	// form; validation still blocks a sold-out slot.
	qty := inventory.ClampQuantity(*quantity, inventory.MaxQuantity(inv, *date, *category))
	if qty != *quantity {
		fmt.Printf("Количество скорректировано: %d\n", qty)
	}

	if err := flow.Validate(*date, *category, qty); err != nil {
		return selectionError(err)
	}

	sel, _ := flow.Selection()
	fmt.Printf("Бронирование: %s, %s x%d, итого %s %s\n",
		sel.DateKey, sel.Category, sel.Quantity,
		inventory.FormatPrice(sel.TotalMinor()), sel.Currency)

	refresh := func(ctx context.Context) (inventory.Inventory, error) {
		return svc.FreshSnapshot(ctx, excursionID)
	}
	if err := flow.Confirm(ctx, refresh); err != nil {
		return selectionError(err)
	}

	if !*yes && !promptYes() {
		// Cancel from Confirming cannot fail.
		_ = flow.Cancel()
		fmt.Println("Отменено")
		return nil
	}

	conf, err := svc.Submit(ctx, sess.UserID, excursionID, flow)
	if err != nil {
		var rejection *bookingapi.RemoteRejection
		if errors.As(err, &rejection) {
			// The server said no after local validation passed; its message
			// is shown verbatim and the selection can be retried.
			return errors.New(rejection.Message)
		}
		return err
	}

	fmt.Printf("Забронировано: %s (статус %s)\n", conf.BookingID, conf.Status)
	return nil
}

func runBookings(ctx context.Context, cfg *config.Config) error {
	sess, err := loadSession(ctx, cfg)
	if err != nil {
		return err
	}

	client := newClient(cfg, sess.Token)
	bookings, err := client.ListBookings(ctx, sess.UserID)
	if err != nil {
		return err
	}

	if len(bookings) == 0 {
		fmt.Println("Бронирований нет")
		return nil
	}
	for _, b := range bookings {
		fmt.Printf("%s  %s %s x%d  %s %s  [%s]\n",
			b.ID, b.DateTime, b.TicketCategory, b.Quantity, b.Total, b.Currency, b.Status)
	}
	return nil
}

func loadSession(ctx context.Context, cfg *config.Config) (*session.Session, error) {
	sess, err := session.NewFileRepository(cfg.SessionFile).Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, errors.New("no active session, run: bookctl login")
		}
		return nil, err
	}
	if !sess.Valid(time.Now()) {
		return nil, errors.New("session expired, run: bookctl login")
	}
	return sess, nil
}

func newClient(cfg *config.Config, token string) *bookingapi.Client {
	if token == "" {
		token = cfg.APIToken
	}
	return bookingapi.NewClient(cfg.APIBaseURL, token, cfg.APITimeout(), cfg.UserAgent)
}

// newService builds the booking service with a Redis snapshot cache when one
// is configured and an in-memory cache otherwise.
func newService(cfg *config.Config, token string) (*booking.Service, func()) {
	client := newClient(cfg, token)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory snapshot cache")
		redisClient = nil
	}

	var cache snapshotcache.Cache
	closeCache := func() {}
	if redisClient != nil {
		cache = snapshotcache.NewRedis(redisClient, cfg.SnapshotCacheTTL)
		closeCache = func() { database.CloseRedis(redisClient) }
	} else {
		cache = snapshotcache.NewMemory(cfg.SnapshotCacheTTL)
	}

	return booking.NewService(client, cache), closeCache
}

func selectionError(err error) error {
	var selErr *inventory.SelectionError
	if errors.As(err, &selErr) {
		return errors.New(selErr.UserMessage())
	}
	return err
}

func promptYes() bool {
	fmt.Print("Подтвердить бронирование? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes" || answer == "д" || answer == "да"
}
