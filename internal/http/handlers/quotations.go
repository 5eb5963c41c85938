package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/auto-insurance/internal/core"
	"github.com/MrKriegler/auto-insurance/pkg/problem"
)

type QuotationHandler struct {
	Svc core.QuotationService
	Log *slog.Logger
}

func NewQuotationHandler(svc core.QuotationService, log *slog.Logger) *QuotationHandler {
	return &QuotationHandler{Svc: svc, Log: log}
}

func (h *QuotationHandler) Mount(r chi.Router) {
	r.Route("/quotations", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{quotation_id}", h.Get)
		r.Patch("/{quotation_id}/status", h.SetStatus)
		r.Delete("/{quotation_id}", h.Delete)
	})
}

// Create prices a new quotation for a driver/vehicle/payment combination.
// 201: JSON; 400: bad JSON/validation/unresolvable references; 500: internal error.
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in core.QuotationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	q, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(q); err != nil {
		h.Log.Error("failed to encode quotation", "err", err)
	}
}

// Get retrieves a quotation by ID.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quotation_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Quotation ID", "Path parameter quotation_id is required.")
		return
	}

	q, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get quotation")
		return
	}

	if err := json.NewEncoder(w).Encode(q); err != nil {
		h.Log.Error("failed to encode quotation", "quotation_id", id, "err", err)
	}
}

// List returns quotations with optional driver_id and status filters.
// 200: JSON; 500: internal error.
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := core.QuotationFilter{
		DriverID: r.URL.Query().Get("driver_id"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = core.QuotationStatus(status)
	}

	quotations, err := h.Svc.List(r.Context(), filter)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list quotations")
		return
	}

	if quotations == nil {
		quotations = []core.QuotationView{}
	}

	if err := json.NewEncoder(w).Encode(quotations); err != nil {
		h.Log.Error("failed to encode quotations", "err", err)
	}
}

// SetStatus applies an approve or reject decision.
// 200: JSON; 400: bad JSON/validation; 404: not found; 409: invalid transition
// or lost race; 410: quotation expired; 500: internal error.
func (h *QuotationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quotation_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Quotation ID", "Path parameter quotation_id is required.")
		return
	}

	var in core.QuotationStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	q, err := h.Svc.SetStatus(r.Context(), id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(q); err != nil {
		h.Log.Error("failed to encode quotation", "quotation_id", id, "err", err)
	}
}

// Delete removes a quotation that has no issued policy.
// 204: empty; 400: missing ID; 404: not found; 409: referenced by a policy; 500: internal error.
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quotation_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Quotation ID", "Path parameter quotation_id is required.")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
