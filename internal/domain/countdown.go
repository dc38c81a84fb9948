package domain

import "time"

// Countdown is the time left until the ceremony, split the way the landing
// page displays it.
type Countdown struct {
	Target  time.Time `json:"target"`
	Days    int       `json:"days"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Seconds int       `json:"seconds"`
	Started bool      `json:"started"`
}

// NewCountdown computes the remaining time from now to target. Once target
// has passed every field is zero and Started is set.
func NewCountdown(target, now time.Time) Countdown {
	remaining := target.Sub(now)
	if remaining <= 0 {
		return Countdown{Target: target, Started: true}
	}

	total := int(remaining / time.Second)
	return Countdown{
		Target:  target,
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}
