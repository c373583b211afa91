package inventory

// TicketSlot holds the remaining inventory for one (date, category) pair.
// Prices are kept in minor units (kopecks/cents) so totals stay exact.
type TicketSlot struct {
	Count      int
	PriceMinor int64
	Currency   string
}

// Inventory is the normalized client-side snapshot of an excursion's
// per-date, per-category ticket inventory. It is read-only after
// normalization: the authoritative decrement happens server-side.
type Inventory map[string]map[string]TicketSlot

// Slot returns the slot for the given date and category.
func (inv Inventory) Slot(dateKey, category string) (TicketSlot, bool) {
	categories, ok := inv[dateKey]
	if !ok {
		return TicketSlot{}, false
	}
	slot, ok := categories[category]
	return slot, ok
}

// Selection is a validated user selection against a snapshot. It carries
// everything payload construction needs; the snapshot itself stays untouched.
type Selection struct {
	DateKey        string
	Category       string
	Quantity       int
	UnitPriceMinor int64
	Currency       string
}

// TotalMinor returns the selection total in minor units.
func (s Selection) TotalMinor() int64 {
	return s.UnitPriceMinor * int64(s.Quantity)
}
