package domain

import "time"

// VenueSlots is the per-venue aggregate: the grid config plus sparse
// exception records. Cells without a record are available.
type VenueSlots struct {
	VenueID   string
	Config    VenueSlotConfig
	Blocked   []BlockedSlot
	Bookings  []BookedSlot
	Held      []HeldSlot
	Reserved  []ReservedSlot
	UpdatedAt time.Time
}

// NewVenueSlots creates an aggregate without exceptions
func NewVenueSlots(venueID string, config VenueSlotConfig, now time.Time) *VenueSlots {
	return &VenueSlots{
		VenueID:   venueID,
		Config:    config.Clone(),
		Blocked:   []BlockedSlot{},
		Bookings:  []BookedSlot{},
		Held:      []HeldSlot{},
		Reserved:  []ReservedSlot{},
		UpdatedAt: now,
	}
}

// Clone returns a deep copy; records hold only immutable pointers, so copying
// the slices is enough.
func (v *VenueSlots) Clone() *VenueSlots {
	if v == nil {
		return nil
	}
	return &VenueSlots{
		VenueID:   v.VenueID,
		Config:    v.Config.Clone(),
		Blocked:   append([]BlockedSlot{}, v.Blocked...),
		Bookings:  append([]BookedSlot{}, v.Bookings...),
		Held:      append([]HeldSlot{}, v.Held...),
		Reserved:  append([]ReservedSlot{}, v.Reserved...),
		UpdatedAt: v.UpdatedAt,
	}
}

// FindBooking returns the booking for the key, if any
func (v *VenueSlots) FindBooking(key SlotKey) (BookedSlot, bool) {
	for _, b := range v.Bookings {
		if b.Key() == key {
			return b, true
		}
	}
	return BookedSlot{}, false
}

// FindActiveHold returns the first hold for the key that has not expired
func (v *VenueSlots) FindActiveHold(key SlotKey, now time.Time) (HeldSlot, bool) {
	for _, h := range v.Held {
		if h.Key() == key && h.IsActive(now) {
			return h, true
		}
	}
	return HeldSlot{}, false
}

func (v *VenueSlots) RemoveBlocked(key SlotKey) int {
	var n int
	v.Blocked, n = removeByKey(v.Blocked, key)
	return n
}

func (v *VenueSlots) RemoveBookings(key SlotKey) int {
	var n int
	v.Bookings, n = removeByKey(v.Bookings, key)
	return n
}

func (v *VenueSlots) RemoveHolds(key SlotKey) int {
	var n int
	v.Held, n = removeByKey(v.Held, key)
	return n
}

func (v *VenueSlots) RemoveReserved(key SlotKey) int {
	var n int
	v.Reserved, n = removeByKey(v.Reserved, key)
	return n
}

// RemoveExpiredHolds drops holds with HoldExpiresAt <= now
func (v *VenueSlots) RemoveExpiredHolds(now time.Time) int {
	kept := make([]HeldSlot, 0, len(v.Held))
	for _, h := range v.Held {
		if h.IsActive(now) {
			kept = append(kept, h)
		}
	}
	removed := len(v.Held) - len(kept)
	v.Held = kept
	return removed
}

// Index builds lookup maps over the exception lists
func (v *VenueSlots) Index() *SlotIndex {
	idx := &SlotIndex{
		blocked:  make(map[SlotKey]BlockedSlot, len(v.Blocked)),
		bookings: make(map[SlotKey]BookedSlot, len(v.Bookings)),
		held:     make(map[SlotKey][]HeldSlot, len(v.Held)),
		reserved: make(map[SlotKey]ReservedSlot, len(v.Reserved)),
	}
	for _, b := range v.Blocked {
		if _, ok := idx.blocked[b.Key()]; !ok {
			idx.blocked[b.Key()] = b
		}
	}
	for _, b := range v.Bookings {
		if _, ok := idx.bookings[b.Key()]; !ok {
			idx.bookings[b.Key()] = b
		}
	}
	for _, h := range v.Held {
		idx.held[h.Key()] = append(idx.held[h.Key()], h)
	}
	for _, r := range v.Reserved {
		if _, ok := idx.reserved[r.Key()]; !ok {
			idx.reserved[r.Key()] = r
		}
	}
	return idx
}

// SlotIndex is a read-only view of the exception lists keyed by slot.
// The first record in list order wins for each key.
type SlotIndex struct {
	blocked  map[SlotKey]BlockedSlot
	bookings map[SlotKey]BookedSlot
	held     map[SlotKey][]HeldSlot
	reserved map[SlotKey]ReservedSlot
}

func (i *SlotIndex) Blocked(key SlotKey) (BlockedSlot, bool) {
	b, ok := i.blocked[key]
	return b, ok
}

func (i *SlotIndex) Booking(key SlotKey) (BookedSlot, bool) {
	b, ok := i.bookings[key]
	return b, ok
}

// ActiveHold skips expired holds, so an expired hold reads as absent
func (i *SlotIndex) ActiveHold(key SlotKey, now time.Time) (HeldSlot, bool) {
	for _, h := range i.held[key] {
		if h.IsActive(now) {
			return h, true
		}
	}
	return HeldSlot{}, false
}

func (i *SlotIndex) Reserved(key SlotKey) (ReservedSlot, bool) {
	r, ok := i.reserved[key]
	return r, ok
}

type keyed interface {
	Key() SlotKey
}

func removeByKey[T keyed](items []T, key SlotKey) ([]T, int) {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	return kept, len(items) - len(kept)
}
