package booking

import (
	"context"
	"fmt"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

// State is a step of the two-click confirm flow.
type State string

const (
	StateSelecting  State = "Selecting"
	StateValidated  State = "Validated"
	StateConfirming State = "Confirming"
	StateSubmitted  State = "Submitted"
)

// RefreshFunc re-fetches the inventory snapshot, bypassing any cache. Used
// for the optional staleness re-check between validation and submission.
type RefreshFunc func(ctx context.Context) (inventory.Inventory, error)

// Flow is the explicit state machine behind the booking form: a selection is
// validated by a deliberate confirm action, summarized, then submitted.
// Illegal transitions return ErrIllegalTransition instead of being
// representable as stray boolean flags.
type Flow struct {
	state     State
	inv       inventory.Inventory
	selection inventory.Selection
}

// NewFlow starts a flow in Selecting over the given snapshot.
func NewFlow(inv inventory.Inventory) *Flow {
	return &Flow{state: StateSelecting, inv: inv}
}

// State returns the current flow state.
func (f *Flow) State() State {
	return f.state
}

// Selection returns the validated selection. Only meaningful from Validated
// onward.
func (f *Flow) Selection() (inventory.Selection, bool) {
	if f.state == StateSelecting {
		return inventory.Selection{}, false
	}
	return f.selection, true
}

// Validate moves Selecting -> Validated via a successful selection check.
// On a validation failure the flow stays in Selecting and the selection
// error is returned for inline display.
func (f *Flow) Validate(dateKey, category string, quantity int) error {
	if f.state != StateSelecting {
		return f.illegal("validate")
	}

	sel, err := inventory.ValidateSelection(f.inv, dateKey, category, quantity)
	if err != nil {
		return err
	}

	f.selection = sel
	f.state = StateValidated
	return nil
}

// Confirm moves Validated -> Confirming. When refresh is non-nil the
// selection is re-validated against a fresh snapshot first; a nil refresh
// matches the original behavior of trusting the held snapshot. If the fresh
// snapshot no longer covers the selection the flow returns to Selecting and
// the selection error is returned.
func (f *Flow) Confirm(ctx context.Context, refresh RefreshFunc) error {
	if f.state != StateValidated {
		return f.illegal("confirm")
	}

	if refresh != nil {
		fresh, err := refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh snapshot: %w", err)
		}
		sel, err := inventory.ValidateSelection(fresh, f.selection.DateKey, f.selection.Category, f.selection.Quantity)
		if err != nil {
			f.reset()
			return err
		}
		f.inv = fresh
		f.selection = sel
	}

	f.state = StateConfirming
	return nil
}

// Cancel discards the draft selection and returns to Selecting. Allowed from
// Validated and Confirming; a no-op side-effect-wise.
func (f *Flow) Cancel() error {
	if f.state != StateValidated && f.state != StateConfirming {
		return f.illegal("cancel")
	}
	f.reset()
	return nil
}

// markSubmitted completes the flow after the API accepted the booking.
func (f *Flow) markSubmitted() error {
	if f.state != StateConfirming {
		return f.illegal("submit")
	}
	f.state = StateSubmitted
	return nil
}

// reject returns the flow to Selecting after the API refused the booking,
// keeping the snapshot so the user can adjust and retry.
func (f *Flow) reject() {
	f.reset()
}

func (f *Flow) reset() {
	f.selection = inventory.Selection{}
	f.state = StateSelecting
}

func (f *Flow) illegal(action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrIllegalTransition, action, f.state)
}
