package inventory

import "sort"

// AvailableDates returns the date keys that still have at least one bookable
// category, sorted ascending. Date keys are ISO calendar days, so
// lexicographic order is chronological order. An empty result means the
// excursion is sold out.
func AvailableDates(inv Inventory) []string {
	dates := make([]string, 0, len(inv))
	for dateKey, categories := range inv {
		for _, slot := range categories {
			if slot.Count > 0 {
				dates = append(dates, dateKey)
				break
			}
		}
	}
	sort.Strings(dates)
	return dates
}

// CategoriesForDate returns every category configured under the date,
// including sold-out ones: the booking screen shows those as disabled rather
// than hiding them. An absent date is a normal "no inventory" case and yields
// an empty slice.
func CategoriesForDate(inv Inventory, dateKey string) []string {
	categories, ok := inv[dateKey]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxQuantity returns the remaining count for the slot, or 0 when the slot
// does not exist. Never negative.
func MaxQuantity(inv Inventory, dateKey, category string) int {
	slot, ok := inv.Slot(dateKey, category)
	if !ok {
		return 0
	}
	return slot.Count
}

// ClampQuantity clamps a requested quantity to [1, max]. When nothing is
// available (max < 1) the result defaults to 1 to keep the input usable;
// ValidateSelection blocks the actual submission.
func ClampQuantity(requested, max int) int {
	if max < 1 {
		return 1
	}
	if requested > max {
		return max
	}
	if requested < 1 {
		return 1
	}
	return requested
}

// ValidateSelection checks a user selection against the snapshot and returns
// the validated selection with its unit price. Checks run in a fixed order:
// presence of date and category, then quantity, then remaining inventory.
// The snapshot is never mutated; the decrement is the server's job.
func ValidateSelection(inv Inventory, dateKey, category string, quantity int) (Selection, error) {
	if dateKey == "" {
		return Selection{}, missingSelection("dateKey")
	}
	if category == "" {
		return Selection{}, missingSelection("category")
	}
	if quantity < 1 {
		return Selection{}, invalidQuantity(quantity)
	}

	slot, ok := inv.Slot(dateKey, category)
	if !ok {
		return Selection{}, insufficientInventory(quantity, 0)
	}
	if slot.Count < quantity {
		return Selection{}, insufficientInventory(quantity, slot.Count)
	}

	return Selection{
		DateKey:        dateKey,
		Category:       category,
		Quantity:       quantity,
		UnitPriceMinor: slot.PriceMinor,
		Currency:       slot.Currency,
	}, nil
}
