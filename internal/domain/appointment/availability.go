package appointment

import "time"

type AvailabilityInput struct {
	BarberID   uint
	BarberSlug string
	ServiceID  uint
	// Duration só é usada quando ServiceID é zero.
	Duration time.Duration
	Date     string
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
