package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/auto-insurance/internal/core"
	"github.com/MrKriegler/auto-insurance/pkg/problem"
)

type DriverHandler struct {
	Svc core.DriverService
	Log *slog.Logger
}

func NewDriverHandler(svc core.DriverService, log *slog.Logger) *DriverHandler {
	return &DriverHandler{Svc: svc, Log: log}
}

func (h *DriverHandler) Mount(r chi.Router) {
	r.Route("/drivers", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{driver_id}", h.Get)
		r.Put("/{driver_id}", h.Update)
		r.Delete("/{driver_id}", h.Delete)
	})
}

func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in core.DriverInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	d, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(d); err != nil {
		h.Log.Error("failed to encode driver", "err", err)
	}
}

func (h *DriverHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "driver_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Driver ID", "Path parameter driver_id is required.")
		return
	}

	d, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get driver")
		return
	}

	if err := json.NewEncoder(w).Encode(d); err != nil {
		h.Log.Error("failed to encode driver", "driver_id", id, "err", err)
	}
}

func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list drivers")
		return
	}

	if drivers == nil {
		drivers = []core.Driver{}
	}

	if err := json.NewEncoder(w).Encode(drivers); err != nil {
		h.Log.Error("failed to encode drivers", "err", err)
	}
}

func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "driver_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Driver ID", "Path parameter driver_id is required.")
		return
	}

	var in core.DriverInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	d, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(d); err != nil {
		h.Log.Error("failed to encode driver", "driver_id", id, "err", err)
	}
}

func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "driver_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Driver ID", "Path parameter driver_id is required.")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
