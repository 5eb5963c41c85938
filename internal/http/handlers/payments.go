package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/auto-insurance/internal/core"
	"github.com/MrKriegler/auto-insurance/pkg/problem"
)

type PaymentMethodHandler struct {
	Svc core.PaymentMethodService
	Log *slog.Logger
}

func NewPaymentMethodHandler(svc core.PaymentMethodService, log *slog.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{Svc: svc, Log: log}
}

func (h *PaymentMethodHandler) Mount(r chi.Router) {
	r.Route("/payment-methods", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{payment_method_id}", h.Get)
		r.Put("/{payment_method_id}", h.Update)
		r.Delete("/{payment_method_id}", h.Delete)
	})
}

func (h *PaymentMethodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in core.PaymentMethodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	pm, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(pm); err != nil {
		h.Log.Error("failed to encode payment method", "err", err)
	}
}

func (h *PaymentMethodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "payment_method_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Payment Method ID", "Path parameter payment_method_id is required.")
		return
	}

	pm, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get payment method")
		return
	}

	if err := json.NewEncoder(w).Encode(pm); err != nil {
		h.Log.Error("failed to encode payment method", "payment_method_id", id, "err", err)
	}
}

func (h *PaymentMethodHandler) List(w http.ResponseWriter, r *http.Request) {
	methods, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list payment methods")
		return
	}

	if methods == nil {
		methods = []core.PaymentMethod{}
	}

	if err := json.NewEncoder(w).Encode(methods); err != nil {
		h.Log.Error("failed to encode payment methods", "err", err)
	}
}

func (h *PaymentMethodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "payment_method_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Payment Method ID", "Path parameter payment_method_id is required.")
		return
	}

	var in core.PaymentMethodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	pm, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(pm); err != nil {
		h.Log.Error("failed to encode payment method", "payment_method_id", id, "err", err)
	}
}

func (h *PaymentMethodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "payment_method_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Payment Method ID", "Path parameter payment_method_id is required.")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
