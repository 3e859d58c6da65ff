package handlers

import (
	"net/http"
	"parcel-routing-service/internal/api/dto"
	"parcel-routing-service/internal/services"
	"slices"
)

// PlanHandler returns the simulated timetable of every vehicle.
type PlanHandler struct {
	Dispatch  *services.Dispatch
	Locations Locations
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	res := dto.ListPlanResponse{TotalDistance: h.Dispatch.TotalMileage()}
	for _, sched := range h.Dispatch.Schedules() {
		v, err := h.Dispatch.Vehicle(sched.VehicleID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		legs := make([]dto.PlanLegResponse, 0, len(sched.Legs))
		for _, l := range sched.Legs {
			ids := l.ItemIDs
			if ids == nil {
				ids = []int{}
			}
			legs = append(legs, dto.PlanLegResponse{
				From:               l.From,
				To:                 l.To,
				Destination:        addressOf(h.Locations, l.To),
				Distance:           l.Distance,
				DepartAt:           l.DepartAt,
				ArriveAt:           l.ArriveAt,
				CumulativeDistance: l.CumulativeDistance,
				ItemIDs:            ids,
			})
		}

		res.Plans = append(res.Plans, dto.PlanResponse{
			VehicleID:     sched.VehicleID,
			DepartAt:      sched.DepartAt,
			FinishAt:      sched.FinishAt(),
			TotalDistance: sched.TotalDistance,
			Route:         slices.Clone(v.Route),
			Legs:          legs,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
