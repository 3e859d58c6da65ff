package handlers

import (
	"net/http"
	"parcel-routing-service/internal/api/dto"
	"parcel-routing-service/internal/services"
	"slices"
)

// VehicleHandler reports where each vehicle is and how far the fleet has driven.
type VehicleHandler struct {
	Dispatch  *services.Dispatch
	Clock     Clock
	Locations Locations
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	at, err := h.Clock.at(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	vehicles := h.Dispatch.Vehicles()
	res := dto.ListVehiclesResponse{
		At:           at,
		FleetMileage: h.Dispatch.FleetMileageAt(at),
		TotalMileage: h.Dispatch.TotalMileage(),
		Vehicles:     make([]dto.VehiclePositionResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		pos, err := h.Dispatch.VehiclePositionAt(v.ID, at)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		res.Vehicles = append(res.Vehicles, dto.VehiclePositionResponse{
			VehicleID: v.ID,
			DepartAt:  v.DepartAt,
			Location:  pos.Location,
			Address:   addressOf(h.Locations, pos.Location),
			Mileage:   pos.Mileage,
			ItemIDs:   slices.Clone(v.Items),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
