package handlers

import (
	"fmt"
	"net/http"
	"parcel-routing-service/internal/api/dto"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/services"
	"strconv"
)

// ItemHandler exposes item status lookups over a finished plan.
type ItemHandler struct {
	Dispatch *services.Dispatch
	Clock    Clock
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	at, err := h.Clock.at(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	reports := h.Dispatch.Statuses(at)
	res := dto.ListItemsResponse{At: at, Items: make([]dto.ItemStatusResponse, 0, len(reports))}
	for _, s := range reports {
		res.Items = append(res.Items, toItemStatus(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeDomainError(w, r, fmt.Errorf("item id %q: %w", r.PathValue("id"), domain.ErrInvalidInput))
		return
	}

	at, err := h.Clock.at(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s, err := h.Dispatch.StatusAt(id, at)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toItemStatus(s))
}

func toItemStatus(s services.StatusReport) dto.ItemStatusResponse {
	res := dto.ItemStatusResponse{
		ItemID:    s.ItemID,
		VehicleID: s.VehicleID,
		Status:    s.Status.String(),
		Predicted: s.Predicted,
		Address:   s.Address,
		Deadline:  s.Deadline,
	}
	if !s.Time.IsZero() {
		t := s.Time
		res.Time = &t
		res.Late = t.After(s.Deadline)
	}
	return res
}
