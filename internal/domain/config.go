package domain

import (
	"fmt"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// VenueSlotConfig describes the daily time grid of a venue.
// DaysOfWeek uses time.Weekday numbering: 0 = Sunday ... 6 = Saturday.
type VenueSlotConfig struct {
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	DaysOfWeek          []int
	Timezone            string
}

// PartialVenueSlotConfig carries a config patch; nil fields stay unchanged.
type PartialVenueSlotConfig struct {
	StartTime           *types.TimeString
	EndTime             *types.TimeString
	SlotDurationMinutes *int
	DaysOfWeek          []int
	Timezone            *string
}

// IsEmpty returns true if the patch changes nothing
func (p PartialVenueSlotConfig) IsEmpty() bool {
	return p.StartTime == nil && p.EndTime == nil && p.SlotDurationMinutes == nil &&
		p.DaysOfWeek == nil && p.Timezone == nil
}

// WithDefaults fills the timezone when it is empty and normalizes the opening hours
func (c VenueSlotConfig) WithDefaults() VenueSlotConfig {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	return c.normalized()
}

// normalized rewrites well-formed opening hours to "HH:MM".
// Malformed values are left for Validate to report.
func (c VenueSlotConfig) normalized() VenueSlotConfig {
	if t, err := c.StartTime.Normalize(); err == nil {
		c.StartTime = t
	}
	if t, err := c.EndTime.Normalize(); err == nil {
		c.EndTime = t
	}
	return c
}

// Merge applies the non-nil fields of the patch to a copy of the config.
// Opening hours in the result are normalized.
func (c VenueSlotConfig) Merge(p PartialVenueSlotConfig) VenueSlotConfig {
	merged := c.Clone()
	if p.StartTime != nil {
		merged.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		merged.EndTime = *p.EndTime
	}
	if p.SlotDurationMinutes != nil {
		merged.SlotDurationMinutes = *p.SlotDurationMinutes
	}
	if p.DaysOfWeek != nil {
		merged.DaysOfWeek = append([]int(nil), p.DaysOfWeek...)
	}
	if p.Timezone != nil {
		merged.Timezone = *p.Timezone
	}
	return merged.normalized()
}

// Clone returns a deep copy
func (c VenueSlotConfig) Clone() VenueSlotConfig {
	c.DaysOfWeek = append([]int(nil), c.DaysOfWeek...)
	return c
}

// Validate checks the config invariants. All errors wrap ErrInvalidConfig.
func (c VenueSlotConfig) Validate() error {
	start, err := c.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidConfig, err)
	}
	end, err := c.EndTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidConfig, err)
	}
	if start >= end {
		return fmt.Errorf("%w: startTime %s must be before endTime %s", ErrInvalidConfig, c.StartTime, c.EndTime)
	}

	if c.SlotDurationMinutes < MinSlotDurationMinutes || c.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d, got %d",
			ErrInvalidConfig, MinSlotDurationMinutes, MaxSlotDurationMinutes, c.SlotDurationMinutes)
	}
	if end-start < c.SlotDurationMinutes {
		return fmt.Errorf("%w: opening hours %s-%s are shorter than one slot", ErrInvalidConfig, c.StartTime, c.EndTime)
	}

	if len(c.DaysOfWeek) == 0 {
		return fmt.Errorf("%w: daysOfWeek must not be empty", ErrInvalidConfig)
	}
	seen := make(map[int]struct{}, len(c.DaysOfWeek))
	for _, d := range c.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day of week %d is out of range 0..6", ErrInvalidConfig, d)
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("%w: day of week %d is duplicated", ErrInvalidConfig, d)
		}
		seen[d] = struct{}{}
	}

	if c.Timezone == "" {
		return fmt.Errorf("%w: timezone must not be empty", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
	}
	return nil
}

// IsOpenOn returns true if the venue has slots on the given weekday
func (c VenueSlotConfig) IsOpenOn(day time.Weekday) bool {
	for _, d := range c.DaysOfWeek {
		if d == int(day) {
			return true
		}
	}
	return false
}

// Location returns the venue timezone, UTC when it cannot be loaded
func (c VenueSlotConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SortedDays returns DaysOfWeek in ascending order
func (c VenueSlotConfig) SortedDays() []int {
	days := append([]int(nil), c.DaysOfWeek...)
	sort.Ints(days)
	return days
}
