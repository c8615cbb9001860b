package domain

// Default configuration values
const (
	DefaultTimezone            = "Asia/Kathmandu"
	DefaultHoldDurationMinutes = 5
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240 // 4 hours
	MinHoldDurationMinutes = 1
	MaxHoldDurationMinutes = 60
	MaxReconstructDays     = 366
	MaxNotesLength         = 500
	MaxReasonLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ReservationReferencePrefix prefix of identifiers returned by Reserve
const ReservationReferencePrefix = "physical_"
