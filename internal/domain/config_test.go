package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

func validConfig() VenueSlotConfig {
	return VenueSlotConfig{
		StartTime:           "06:00",
		EndTime:             "22:00",
		SlotDurationMinutes: 60,
		DaysOfWeek:          []int{1, 2, 3, 4, 5},
		Timezone:            DefaultTimezone,
	}
}

func TestVenueSlotConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *VenueSlotConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *VenueSlotConfig) {}},
		{name: "end of day", mutate: func(c *VenueSlotConfig) { c.EndTime = "24:00" }},
		{name: "bad start", mutate: func(c *VenueSlotConfig) { c.StartTime = "6" }, wantErr: true},
		{name: "signed start", mutate: func(c *VenueSlotConfig) { c.StartTime = "+9:00" }, wantErr: true},
		{name: "start after end", mutate: func(c *VenueSlotConfig) { c.StartTime = "23:00" }, wantErr: true},
		{name: "duration too short", mutate: func(c *VenueSlotConfig) { c.SlotDurationMinutes = 10 }, wantErr: true},
		{name: "duration too long", mutate: func(c *VenueSlotConfig) { c.SlotDurationMinutes = 300 }, wantErr: true},
		{name: "window shorter than slot", mutate: func(c *VenueSlotConfig) {
			c.StartTime, c.EndTime, c.SlotDurationMinutes = "10:00", "10:30", 60
		}, wantErr: true},
		{name: "no days", mutate: func(c *VenueSlotConfig) { c.DaysOfWeek = nil }, wantErr: true},
		{name: "day out of range", mutate: func(c *VenueSlotConfig) { c.DaysOfWeek = []int{7} }, wantErr: true},
		{name: "duplicate day", mutate: func(c *VenueSlotConfig) { c.DaysOfWeek = []int{1, 1} }, wantErr: true},
		{name: "unknown timezone", mutate: func(c *VenueSlotConfig) { c.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "empty timezone", mutate: func(c *VenueSlotConfig) { c.Timezone = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVenueSlotConfig_Merge(t *testing.T) {
	base := validConfig()
	patch := PartialVenueSlotConfig{
		EndTime:             ptr.Ptr(types.TimeString("20:00")),
		SlotDurationMinutes: ptr.Ptr(30),
		DaysOfWeek:          []int{0, 6},
	}

	merged := base.Merge(patch)

	assert.Equal(t, types.TimeString("06:00"), merged.StartTime)
	assert.Equal(t, types.TimeString("20:00"), merged.EndTime)
	assert.Equal(t, 30, merged.SlotDurationMinutes)
	assert.Equal(t, []int{0, 6}, merged.DaysOfWeek)
	assert.Equal(t, DefaultTimezone, merged.Timezone)

	// исходная конфигурация не изменилась
	assert.Equal(t, []int{1, 2, 3, 4, 5}, base.DaysOfWeek)
	assert.False(t, patch.IsEmpty())
	assert.True(t, PartialVenueSlotConfig{}.IsEmpty())
}

func TestVenueSlotConfig_NormalizesOpeningHours(t *testing.T) {
	cfg := validConfig()
	cfg.StartTime, cfg.EndTime = "9:00", "21:00"

	withDefaults := cfg.WithDefaults()
	assert.Equal(t, types.TimeString("09:00"), withDefaults.StartTime)
	assert.Equal(t, types.TimeString("21:00"), withDefaults.EndTime)

	merged := validConfig().Merge(PartialVenueSlotConfig{StartTime: ptr.Ptr(types.TimeString("7:30"))})
	assert.Equal(t, types.TimeString("07:30"), merged.StartTime)

	// некорректное значение остается как есть и отклоняется Validate
	bad := validConfig()
	bad.StartTime = "+9:00"
	assert.Equal(t, types.TimeString("+9:00"), bad.WithDefaults().StartTime)
	assert.ErrorIs(t, bad.WithDefaults().Validate(), ErrInvalidConfig)
}

func TestVenueSlotConfig_Helpers(t *testing.T) {
	cfg := validConfig()

	assert.True(t, cfg.IsOpenOn(time.Monday))
	assert.False(t, cfg.IsOpenOn(time.Sunday))
	assert.Equal(t, DefaultTimezone, cfg.Location().String())
	assert.Equal(t, time.UTC, VenueSlotConfig{Timezone: "Nope/Nope"}.Location())
	assert.Equal(t, DefaultTimezone, VenueSlotConfig{}.WithDefaults().Timezone)
	assert.Equal(t, []int{0, 3, 5}, VenueSlotConfig{DaysOfWeek: []int{5, 0, 3}}.SortedDays())
}
