package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/auto-insurance/internal/core"
)

type stubQuotationService struct {
	createFn    func(ctx context.Context, in core.QuotationInput) (core.Quotation, error)
	getFn       func(ctx context.Context, id string) (core.QuotationView, error)
	listFn      func(ctx context.Context, filter core.QuotationFilter) ([]core.QuotationView, error)
	setStatusFn func(ctx context.Context, id string, in core.QuotationStatusInput) (core.Quotation, error)
	deleteFn    func(ctx context.Context, id string) error
}

func (s *stubQuotationService) Create(ctx context.Context, in core.QuotationInput) (core.Quotation, error) {
	return s.createFn(ctx, in)
}

func (s *stubQuotationService) Get(ctx context.Context, id string) (core.QuotationView, error) {
	return s.getFn(ctx, id)
}

func (s *stubQuotationService) List(ctx context.Context, filter core.QuotationFilter) ([]core.QuotationView, error) {
	return s.listFn(ctx, filter)
}

func (s *stubQuotationService) SetStatus(ctx context.Context, id string, in core.QuotationStatusInput) (core.Quotation, error) {
	return s.setStatusFn(ctx, id, in)
}

func (s *stubQuotationService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func quotationRouter(svc core.QuotationService) http.Handler {
	r := chi.NewRouter()
	NewQuotationHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Mount(r)
	return r
}

func TestQuotationHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubQuotationService{
			createFn: func(_ context.Context, in core.QuotationInput) (core.Quotation, error) {
				return core.Quotation{ID: "q1", DriverID: in.DriverID, Status: core.QuotationStatusPending}, nil
			},
		}
		body := `{"driver_id":"d1","vehicle_id":"v1","payment_method_id":"pm1","terms_accepted":true}`
		req := httptest.NewRequest(http.MethodPost, "/quotations/", strings.NewReader(body))
		w := httptest.NewRecorder()
		quotationRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var got core.Quotation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Equal(t, "q1", got.ID)
	})

	t.Run("bad json", func(t *testing.T) {
		svc := &stubQuotationService{}
		req := httptest.NewRequest(http.MethodPost, "/quotations/", strings.NewReader("{"))
		w := httptest.NewRecorder()
		quotationRouter(svc).ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		svc := &stubQuotationService{
			createFn: func(context.Context, core.QuotationInput) (core.Quotation, error) {
				return core.Quotation{}, fmt.Errorf("%w: terms must be accepted", core.ErrValidation)
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/quotations/", strings.NewReader("{}"))
		w := httptest.NewRecorder()
		quotationRouter(svc).ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuotationHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: core.ErrQuotationNotFound, want: http.StatusNotFound},
		{name: "expired", err: core.ErrQuotationExpired, want: http.StatusGone},
		{name: "invalid transition", err: fmt.Errorf("%w: no", core.ErrInvalidTransition), want: http.StatusConflict},
		{name: "conflict", err: fmt.Errorf("%w: raced", core.ErrConflict), want: http.StatusConflict},
		{name: "internal", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubQuotationService{
				setStatusFn: func(context.Context, string, core.QuotationStatusInput) (core.Quotation, error) {
					return core.Quotation{}, tc.err
				},
			}
			req := httptest.NewRequest(http.MethodPatch, "/quotations/q1/status",
				strings.NewReader(`{"status":"approved"}`))
			w := httptest.NewRecorder()
			quotationRouter(svc).ServeHTTP(w, req)

			require.Equal(t, tc.want, w.Code)
			require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		})
	}
}

func TestQuotationHandler_List(t *testing.T) {
	t.Run("filters forwarded", func(t *testing.T) {
		var gotFilter core.QuotationFilter
		svc := &stubQuotationService{
			listFn: func(_ context.Context, filter core.QuotationFilter) ([]core.QuotationView, error) {
				gotFilter = filter
				return nil, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/quotations/?driver_id=d1&status=approved", nil)
		w := httptest.NewRecorder()
		quotationRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "d1", gotFilter.DriverID)
		require.Equal(t, core.QuotationStatusApproved, gotFilter.Status)
		// nil result is rendered as an empty array, not null
		require.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})
}

func TestQuotationHandler_Delete(t *testing.T) {
	svc := &stubQuotationService{
		deleteFn: func(_ context.Context, id string) error {
			require.Equal(t, "q1", id)
			return nil
		},
	}
	req := httptest.NewRequest(http.MethodDelete, "/quotations/q1", nil)
	w := httptest.NewRecorder()
	quotationRouter(svc).ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}
