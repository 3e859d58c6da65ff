package domain

import "time"

// Represents one edge of a simulated route.
// CumulativeDistance is the distance driven when the leg ends.
type Leg struct {
	From               int
	To                 int
	Distance           float64
	DepartAt           time.Time
	ArriveAt           time.Time
	CumulativeDistance float64
	ItemIDs            []int
}

// Position is where a vehicle is at a point in time and how far it has driven.
// Location is the last location reached.
type Position struct {
	Location int
	Mileage  float64
}

// Represents the simulated timetable of a single vehicle.
// A Schedule is the output of the simulator and contains no side effects.
type Schedule struct {
	VehicleID     int
	Hub           int
	DepartAt      time.Time
	Legs          []Leg
	TotalDistance float64
}

// FinishAt is the arrival time of the final leg, or the departure for an empty route.
func (s *Schedule) FinishAt() time.Time {
	if len(s.Legs) == 0 {
		return s.DepartAt
	}
	return s.Legs[len(s.Legs)-1].ArriveAt
}

// PositionAt interpolates the vehicle's progress at t. Inside a leg the
// mileage grows linearly with the elapsed share of that leg's travel time.
func (s *Schedule) PositionAt(t time.Time) Position {
	if t.Before(s.DepartAt) || len(s.Legs) == 0 {
		return Position{Location: s.Hub}
	}

	driven := 0.0
	for _, leg := range s.Legs {
		if !t.Before(leg.ArriveAt) {
			driven = leg.CumulativeDistance
			continue
		}
		travel := leg.ArriveAt.Sub(leg.DepartAt)
		frac := 0.0
		if travel > 0 {
			frac = float64(t.Sub(leg.DepartAt)) / float64(travel)
		}
		if frac < 0 {
			frac = 0
		}
		return Position{
			Location: leg.From,
			Mileage:  driven + leg.Distance*frac,
		}
	}

	last := s.Legs[len(s.Legs)-1]
	return Position{Location: last.To, Mileage: s.TotalDistance}
}
