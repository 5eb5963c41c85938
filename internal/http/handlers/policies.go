package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/auto-insurance/internal/core"
	"github.com/MrKriegler/auto-insurance/pkg/problem"
)

type PolicyHandler struct {
	Svc core.PolicyService
	Log *slog.Logger
}

func NewPolicyHandler(svc core.PolicyService, log *slog.Logger) *PolicyHandler {
	return &PolicyHandler{Svc: svc, Log: log}
}

func (h *PolicyHandler) Mount(r chi.Router) {
	r.Route("/policies", func(r chi.Router) {
		r.Post("/", h.Issue)
		r.Get("/", h.List)
		r.Get("/{policy_id}", h.Get)
		r.Get("/by-number/{policy_number}", h.GetByNumber)
		r.Patch("/{policy_id}/status", h.UpdateStatus)
		r.Post("/{policy_id}:renew", h.Renew)
	})
}

// Issue creates a policy from an approved quotation.
// 201: JSON; 400: bad JSON/validation; 404: quotation not found; 409: quotation
// not approved or already covered; 410: quotation expired; 500: internal error.
func (h *PolicyHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var in core.IssueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	p, err := h.Svc.Issue(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Log.Error("failed to encode policy", "err", err)
	}
}

// Get retrieves a policy by its ID.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policy_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Policy ID", "Path parameter policy_id is required.")
		return
	}

	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get policy")
		return
	}

	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Log.Error("failed to encode policy", "policy_id", id, "err", err)
	}
}

// GetByNumber retrieves a policy by its public number.
// 200: JSON; 400: missing number; 404: not found; 500: internal error.
func (h *PolicyHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "policy_number")
	if number == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Policy Number", "Path parameter policy_number is required.")
		return
	}

	p, err := h.Svc.GetByNumber(r.Context(), number)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get policy")
		return
	}

	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Log.Error("failed to encode policy", "policy_number", number, "err", err)
	}
}

// List returns policies with optional filtering and pagination.
// 200: JSON; 500: internal error.
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := core.PolicyFilter{
		QuotationID: r.URL.Query().Get("quotation_id"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = core.PolicyStatus(status)
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	policies, total, err := h.Svc.List(r.Context(), filter, limit, offset)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list policies")
		return
	}

	// Return empty array instead of null
	if policies == nil {
		policies = []core.PolicyView{}
	}

	response := map[string]interface{}{
		"items":  policies,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.Log.Error("failed to encode policies", "err", err)
	}
}

// UpdateStatus applies a manual lifecycle transition (cancel, suspend,
// reactivate).
// 200: JSON; 400: bad JSON/validation; 404: not found; 409: invalid
// transition or lost race; 500: internal error.
func (h *PolicyHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policy_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Policy ID", "Path parameter policy_id is required.")
		return
	}

	var in core.PolicyStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	p, err := h.Svc.UpdateStatus(r.Context(), id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Log.Error("failed to encode policy", "policy_id", id, "err", err)
	}
}

// Renew issues a successor policy for an expired one.
// 201: JSON; 400: bad JSON/validation; 404: not found; 409: policy not
// expired or already renewed; 500: internal error.
func (h *PolicyHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policy_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Policy ID", "Path parameter policy_id is required.")
		return
	}

	var in core.RenewInput
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
			return
		}
	}

	p, err := h.Svc.Renew(r.Context(), id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Log.Error("failed to encode policy", "policy_id", id, "err", err)
	}
}
