package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/auto-insurance/internal/core"
	"github.com/MrKriegler/auto-insurance/pkg/problem"
)

type VehicleHandler struct {
	Svc core.VehicleService
	Log *slog.Logger
}

func NewVehicleHandler(svc core.VehicleService, log *slog.Logger) *VehicleHandler {
	return &VehicleHandler{Svc: svc, Log: log}
}

func (h *VehicleHandler) Mount(r chi.Router) {
	r.Route("/vehicles", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{vehicle_id}", h.Get)
		r.Put("/{vehicle_id}", h.Update)
		r.Delete("/{vehicle_id}", h.Delete)
	})
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in core.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	v, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("failed to encode vehicle", "err", err)
	}
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vehicle_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Vehicle ID", "Path parameter vehicle_id is required.")
		return
	}

	v, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get vehicle")
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("failed to encode vehicle", "vehicle_id", id, "err", err)
	}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list vehicles")
		return
	}

	if vehicles == nil {
		vehicles = []core.Vehicle{}
	}

	if err := json.NewEncoder(w).Encode(vehicles); err != nil {
		h.Log.Error("failed to encode vehicles", "err", err)
	}
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vehicle_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Vehicle ID", "Path parameter vehicle_id is required.")
		return
	}

	var in core.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	v, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("failed to encode vehicle", "vehicle_id", id, "err", err)
	}
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vehicle_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Vehicle ID", "Path parameter vehicle_id is required.")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
