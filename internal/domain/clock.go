package domain

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "03:04 PM"}

// At parses a time-of-day such as "10:30 AM" or "09:05" onto the given service day.
func At(day time.Time, clock string) (time.Time, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(clock), " "))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := day.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, day.Location()), nil
	}
	return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, ErrInvalidInput)
}
