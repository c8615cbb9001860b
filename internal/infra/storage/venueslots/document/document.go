package document

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// VenueSlots хранимое представление агрегата.
// Один и тот же документ пишется в JSONB (postgres), строку (redis) и BSON (mongo).
type VenueSlots struct {
	VenueID   string     `json:"venueId" bson:"_id"`
	Config    Config     `json:"config" bson:"config"`
	Blocked   []Blocked  `json:"blocked" bson:"blocked"`
	Bookings  []Booked   `json:"bookings" bson:"bookings"`
	Held      []Held     `json:"held" bson:"held"`
	Reserved  []Reserved `json:"reserved" bson:"reserved"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
	// Version счетчик оптимистичной блокировки, в postgres хранится отдельной колонкой
	Version int64 `json:"-" bson:"version"`
}

type Config struct {
	StartTime           string `json:"startTime" bson:"startTime"`
	EndTime             string `json:"endTime" bson:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes" bson:"slotDurationMinutes"`
	DaysOfWeek          []int  `json:"daysOfWeek" bson:"daysOfWeek"`
	Timezone            string `json:"timezone" bson:"timezone"`
}

type Blocked struct {
	Date      string    `json:"date" bson:"date"`
	StartTime string    `json:"startTime" bson:"startTime"`
	Reason    *string   `json:"reason,omitempty" bson:"reason,omitempty"`
	BlockedBy *string   `json:"blockedBy,omitempty" bson:"blockedBy,omitempty"`
	BlockedAt time.Time `json:"blockedAt" bson:"blockedAt"`
}

type Booked struct {
	Date          string    `json:"date" bson:"date"`
	StartTime     string    `json:"startTime" bson:"startTime"`
	BookingID     string    `json:"bookingId" bson:"bookingId"`
	BookingType   string    `json:"bookingType" bson:"bookingType"`
	Status        string    `json:"status" bson:"status"`
	CustomerName  *string   `json:"customerName,omitempty" bson:"customerName,omitempty"`
	CustomerPhone *string   `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`
	Notes         *string   `json:"notes,omitempty" bson:"notes,omitempty"`
	UserID        *string   `json:"userId,omitempty" bson:"userId,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

type Held struct {
	Date          string    `json:"date" bson:"date"`
	StartTime     string    `json:"startTime" bson:"startTime"`
	UserID        string    `json:"userId" bson:"userId"`
	BookingID     string    `json:"bookingId" bson:"bookingId"`
	HoldExpiresAt time.Time `json:"holdExpiresAt" bson:"holdExpiresAt"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

type Reserved struct {
	Date       string    `json:"date" bson:"date"`
	StartTime  string    `json:"startTime" bson:"startTime"`
	ReservedBy string    `json:"reservedBy" bson:"reservedBy"`
	Note       *string   `json:"note,omitempty" bson:"note,omitempty"`
	ReservedAt time.Time `json:"reservedAt" bson:"reservedAt"`
}

// FromDomain конвертирует агрегат в документ; пустые списки пишутся как [], а не null
func FromDomain(v *domain.VenueSlots, version int64) *VenueSlots {
	doc := &VenueSlots{
		VenueID: v.VenueID,
		Config: Config{
			StartTime:           v.Config.StartTime.String(),
			EndTime:             v.Config.EndTime.String(),
			SlotDurationMinutes: v.Config.SlotDurationMinutes,
			DaysOfWeek:          append([]int{}, v.Config.DaysOfWeek...),
			Timezone:            v.Config.Timezone,
		},
		Blocked:   make([]Blocked, 0, len(v.Blocked)),
		Bookings:  make([]Booked, 0, len(v.Bookings)),
		Held:      make([]Held, 0, len(v.Held)),
		Reserved:  make([]Reserved, 0, len(v.Reserved)),
		UpdatedAt: v.UpdatedAt,
		Version:   version,
	}

	for _, b := range v.Blocked {
		doc.Blocked = append(doc.Blocked, Blocked{
			Date:      b.Date,
			StartTime: b.StartTime.String(),
			Reason:    b.Reason,
			BlockedBy: b.BlockedBy,
			BlockedAt: b.BlockedAt,
		})
	}
	for _, b := range v.Bookings {
		doc.Bookings = append(doc.Bookings, Booked{
			Date:          b.Date,
			StartTime:     b.StartTime.String(),
			BookingID:     b.BookingID,
			BookingType:   string(b.BookingType),
			Status:        string(b.Status),
			CustomerName:  b.CustomerName,
			CustomerPhone: b.CustomerPhone,
			Notes:         b.Notes,
			UserID:        b.UserID,
			CreatedAt:     b.CreatedAt,
		})
	}
	for _, h := range v.Held {
		doc.Held = append(doc.Held, Held{
			Date:          h.Date,
			StartTime:     h.StartTime.String(),
			UserID:        h.UserID,
			BookingID:     h.BookingID,
			HoldExpiresAt: h.HoldExpiresAt,
			CreatedAt:     h.CreatedAt,
		})
	}
	for _, r := range v.Reserved {
		doc.Reserved = append(doc.Reserved, Reserved{
			Date:       r.Date,
			StartTime:  r.StartTime.String(),
			ReservedBy: r.ReservedBy,
			Note:       r.Note,
			ReservedAt: r.ReservedAt,
		})
	}
	return doc
}

// ToDomain конвертирует документ в агрегат, проверяя формат времени
func (d *VenueSlots) ToDomain() (*domain.VenueSlots, error) {
	start, err := types.NewTimeStringFromString(d.Config.StartTime)
	if err != nil {
		return nil, fmt.Errorf("config.startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(d.Config.EndTime)
	if err != nil {
		return nil, fmt.Errorf("config.endTime: %w", err)
	}

	v := &domain.VenueSlots{
		VenueID: d.VenueID,
		Config: domain.VenueSlotConfig{
			StartTime:           start,
			EndTime:             end,
			SlotDurationMinutes: d.Config.SlotDurationMinutes,
			DaysOfWeek:          append([]int{}, d.Config.DaysOfWeek...),
			Timezone:            d.Config.Timezone,
		},
		Blocked:   make([]domain.BlockedSlot, 0, len(d.Blocked)),
		Bookings:  make([]domain.BookedSlot, 0, len(d.Bookings)),
		Held:      make([]domain.HeldSlot, 0, len(d.Held)),
		Reserved:  make([]domain.ReservedSlot, 0, len(d.Reserved)),
		UpdatedAt: d.UpdatedAt,
	}

	for _, b := range d.Blocked {
		st, err := types.NewTimeStringFromString(b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("blocked %s: %w", b.Date, err)
		}
		v.Blocked = append(v.Blocked, domain.BlockedSlot{
			Date:      b.Date,
			StartTime: st,
			Reason:    b.Reason,
			BlockedBy: b.BlockedBy,
			BlockedAt: b.BlockedAt,
		})
	}
	for _, b := range d.Bookings {
		st, err := types.NewTimeStringFromString(b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.BookingID, err)
		}
		v.Bookings = append(v.Bookings, domain.BookedSlot{
			Date:          b.Date,
			StartTime:     st,
			BookingID:     b.BookingID,
			BookingType:   domain.BookingType(b.BookingType),
			Status:        domain.BookedStatus(b.Status),
			CustomerName:  b.CustomerName,
			CustomerPhone: b.CustomerPhone,
			Notes:         b.Notes,
			UserID:        b.UserID,
			CreatedAt:     b.CreatedAt,
		})
	}
	for _, h := range d.Held {
		st, err := types.NewTimeStringFromString(h.StartTime)
		if err != nil {
			return nil, fmt.Errorf("hold %s: %w", h.BookingID, err)
		}
		v.Held = append(v.Held, domain.HeldSlot{
			Date:          h.Date,
			StartTime:     st,
			UserID:        h.UserID,
			BookingID:     h.BookingID,
			HoldExpiresAt: h.HoldExpiresAt,
			CreatedAt:     h.CreatedAt,
		})
	}
	for _, r := range d.Reserved {
		st, err := types.NewTimeStringFromString(r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("reserved %s: %w", r.Date, err)
		}
		v.Reserved = append(v.Reserved, domain.ReservedSlot{
			Date:       r.Date,
			StartTime:  st,
			ReservedBy: r.ReservedBy,
			Note:       r.Note,
			ReservedAt: r.ReservedAt,
		})
	}
	return v, nil
}
