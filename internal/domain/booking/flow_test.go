package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

func flowInventory(standardCount int) inventory.Inventory {
	return inventory.Inventory{
		"2025-05-15": {
			"Standard": {Count: standardCount, PriceMinor: 2000, Currency: "BYN"},
		},
	}
}

func TestFlowHappyPath(t *testing.T) {
	f := NewFlow(flowInventory(5))

	if f.State() != StateSelecting {
		t.Fatalf("expected Selecting, got %s", f.State())
	}

	if err := f.Validate("2025-05-15", "Standard", 2); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if f.State() != StateValidated {
		t.Fatalf("expected Validated, got %s", f.State())
	}

	if err := f.Confirm(context.Background(), nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if f.State() != StateConfirming {
		t.Fatalf("expected Confirming, got %s", f.State())
	}

	if err := f.markSubmitted(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if f.State() != StateSubmitted {
		t.Fatalf("expected Submitted, got %s", f.State())
	}
}

func TestFlowValidationFailureStaysSelecting(t *testing.T) {
	f := NewFlow(flowInventory(1))

	err := f.Validate("2025-05-15", "Standard", 3)
	if !errors.Is(err, inventory.ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
	if f.State() != StateSelecting {
		t.Fatalf("expected flow to stay in Selecting, got %s", f.State())
	}
	if _, ok := f.Selection(); ok {
		t.Fatal("no selection must be exposed in Selecting")
	}
}

func TestFlowIllegalTransitions(t *testing.T) {
	f := NewFlow(flowInventory(5))

	if err := f.Confirm(context.Background(), nil); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("confirm from Selecting: expected ErrIllegalTransition, got %v", err)
	}
	if err := f.markSubmitted(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("submit from Selecting: expected ErrIllegalTransition, got %v", err)
	}
	if err := f.Cancel(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("cancel from Selecting: expected ErrIllegalTransition, got %v", err)
	}

	if err := f.Validate("2025-05-15", "Standard", 1); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := f.Validate("2025-05-15", "Standard", 1); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("validate from Validated: expected ErrIllegalTransition, got %v", err)
	}
	if err := f.markSubmitted(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("submit from Validated: expected ErrIllegalTransition, got %v", err)
	}
}

func TestFlowCancelDiscardsDraft(t *testing.T) {
	f := NewFlow(flowInventory(5))

	if err := f.Validate("2025-05-15", "Standard", 2); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := f.Confirm(context.Background(), nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := f.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if f.State() != StateSelecting {
		t.Fatalf("expected Selecting after cancel, got %s", f.State())
	}
	if _, ok := f.Selection(); ok {
		t.Fatal("selection must be discarded on cancel")
	}

	// The flow is reusable after cancellation.
	if err := f.Validate("2025-05-15", "Standard", 1); err != nil {
		t.Fatalf("re-validate after cancel: %v", err)
	}
}

func TestFlowConfirmRefreshDetectsStaleSnapshot(t *testing.T) {
	f := NewFlow(flowInventory(5))

	if err := f.Validate("2025-05-15", "Standard", 3); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Another client took tickets between validation and confirmation.
	refresh := func(context.Context) (inventory.Inventory, error) {
		return flowInventory(1), nil
	}

	err := f.Confirm(context.Background(), refresh)
	if !errors.Is(err, inventory.ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
	if f.State() != StateSelecting {
		t.Fatalf("expected flow back in Selecting, got %s", f.State())
	}
}

func TestFlowConfirmRefreshKeepsFreshSelection(t *testing.T) {
	f := NewFlow(flowInventory(5))

	if err := f.Validate("2025-05-15", "Standard", 3); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Price changed server-side; the refreshed selection picks it up.
	refresh := func(context.Context) (inventory.Inventory, error) {
		return inventory.Inventory{
			"2025-05-15": {
				"Standard": {Count: 4, PriceMinor: 2500, Currency: "BYN"},
			},
		}, nil
	}

	if err := f.Confirm(context.Background(), refresh); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	sel, ok := f.Selection()
	if !ok || sel.UnitPriceMinor != 2500 {
		t.Fatalf("expected refreshed unit price 2500, got %+v ok=%v", sel, ok)
	}
}

func TestFlowConfirmRefreshErrorKeepsValidated(t *testing.T) {
	f := NewFlow(flowInventory(5))

	if err := f.Validate("2025-05-15", "Standard", 3); err != nil {
		t.Fatalf("validate: %v", err)
	}

	refresh := func(context.Context) (inventory.Inventory, error) {
		return nil, errors.New("network down")
	}

	if err := f.Confirm(context.Background(), refresh); err == nil {
		t.Fatal("expected refresh error")
	}
	// A transport failure is not a rejection: the draft survives for retry.
	if f.State() != StateValidated {
		t.Fatalf("expected flow to stay Validated, got %s", f.State())
	}
}
