package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// In-memory repositories backing the service tests. They enforce the same
// store-level guarantees as the real backends: optimistic version checks and
// unique (quotation_id, renewed_from) and number constraints on policies.

type memDriverRepo struct {
	mu      sync.Mutex
	drivers map[string]Driver
}

func newMemDriverRepo() *memDriverRepo {
	return &memDriverRepo{drivers: make(map[string]Driver)}
}

func (r *memDriverRepo) Create(_ context.Context, d Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[d.ID] = d
	return nil
}

func (r *memDriverRepo) Get(_ context.Context, id string) (Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[id]
	if !ok {
		return Driver{}, ErrDriverNotFound
	}
	return d, nil
}

func (r *memDriverRepo) List(_ context.Context) ([]Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, d)
	}
	return out, nil
}

func (r *memDriverRepo) Update(_ context.Context, d Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[d.ID]; !ok {
		return ErrDriverNotFound
	}
	r.drivers[d.ID] = d
	return nil
}

func (r *memDriverRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[id]; !ok {
		return ErrDriverNotFound
	}
	delete(r.drivers, id)
	return nil
}

type memVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[string]Vehicle
}

func newMemVehicleRepo() *memVehicleRepo {
	return &memVehicleRepo{vehicles: make(map[string]Vehicle)}
}

func (r *memVehicleRepo) Create(_ context.Context, v Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[v.ID] = v
	return nil
}

func (r *memVehicleRepo) Get(_ context.Context, id string) (Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return Vehicle{}, ErrVehicleNotFound
	}
	return v, nil
}

func (r *memVehicleRepo) List(_ context.Context) ([]Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (r *memVehicleRepo) Update(_ context.Context, v Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[v.ID]; !ok {
		return ErrVehicleNotFound
	}
	r.vehicles[v.ID] = v
	return nil
}

func (r *memVehicleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok {
		return ErrVehicleNotFound
	}
	delete(r.vehicles, id)
	return nil
}

type memPaymentRepo struct {
	mu      sync.Mutex
	methods map[string]PaymentMethod
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{methods: make(map[string]PaymentMethod)}
}

func (r *memPaymentRepo) Create(_ context.Context, pm PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[pm.ID] = pm
	return nil
}

func (r *memPaymentRepo) Get(_ context.Context, id string) (PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pm, ok := r.methods[id]
	if !ok {
		return PaymentMethod{}, ErrPaymentMethodNotFound
	}
	return pm, nil
}

func (r *memPaymentRepo) List(_ context.Context) ([]PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PaymentMethod, 0, len(r.methods))
	for _, pm := range r.methods {
		out = append(out, pm)
	}
	return out, nil
}

func (r *memPaymentRepo) Update(_ context.Context, pm PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[pm.ID]; !ok {
		return ErrPaymentMethodNotFound
	}
	r.methods[pm.ID] = pm
	return nil
}

func (r *memPaymentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[id]; !ok {
		return ErrPaymentMethodNotFound
	}
	delete(r.methods, id)
	return nil
}

type memQuotationRepo struct {
	mu     sync.Mutex
	quotes map[string]Quotation
}

func newMemQuotationRepo() *memQuotationRepo {
	return &memQuotationRepo{quotes: make(map[string]Quotation)}
}

func (r *memQuotationRepo) Create(_ context.Context, q Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[q.ID]; ok {
		return fmt.Errorf("%w: quotation id already exists", ErrConflict)
	}
	r.quotes[q.ID] = q
	return nil
}

func (r *memQuotationRepo) Get(_ context.Context, id string) (Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return Quotation{}, ErrQuotationNotFound
	}
	return q, nil
}

func (r *memQuotationRepo) List(_ context.Context, filter QuotationFilter) ([]Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Quotation, 0, len(r.quotes))
	for _, q := range r.quotes {
		if filter.DriverID != "" && q.DriverID != filter.DriverID {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

func (r *memQuotationRepo) Update(_ context.Context, q Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.quotes[q.ID]
	if !ok {
		return ErrQuotationNotFound
	}
	if stored.Version != q.Version {
		return fmt.Errorf("%w: quotation was modified concurrently", ErrConflict)
	}
	q.Version++
	r.quotes[q.ID] = q
	return nil
}

func (r *memQuotationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[id]; !ok {
		return ErrQuotationNotFound
	}
	delete(r.quotes, id)
	return nil
}

func (r *memQuotationRepo) ExistsForDriver(_ context.Context, driverID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.DriverID == driverID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memQuotationRepo) ExistsForVehicle(_ context.Context, vehicleID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.VehicleID == vehicleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memQuotationRepo) ExistsForPaymentMethod(_ context.Context, paymentMethodID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.PaymentMethodID == paymentMethodID {
			return true, nil
		}
	}
	return false, nil
}

type memPolicyRepo struct {
	mu       sync.Mutex
	policies map[string]Policy
}

func newMemPolicyRepo() *memPolicyRepo {
	return &memPolicyRepo{policies: make(map[string]Policy)}
}

func (r *memPolicyRepo) Create(_ context.Context, p Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.policies {
		if existing.QuotationID == p.QuotationID && existing.RenewedFrom == p.RenewedFrom {
			return ErrPolicyExists
		}
		if existing.Number == p.Number {
			return ErrPolicyExists
		}
	}
	r.policies[p.ID] = p
	return nil
}

func (r *memPolicyRepo) Get(_ context.Context, id string) (Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.policies[id]
	if !ok {
		return Policy{}, ErrPolicyNotFound
	}
	return p, nil
}

func (r *memPolicyRepo) GetByNumber(_ context.Context, number string) (Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.policies {
		if p.Number == number {
			return p, nil
		}
	}
	return Policy{}, ErrPolicyNotFound
}

func (r *memPolicyRepo) GetByQuotationID(_ context.Context, quotationID string) (Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.policies {
		if p.QuotationID == quotationID && p.RenewedFrom == "" {
			return p, nil
		}
	}
	return Policy{}, ErrPolicyNotFound
}

func (r *memPolicyRepo) List(_ context.Context, filter PolicyFilter, limit, offset int) ([]Policy, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Policy, 0, len(r.policies))
	for _, p := range r.policies {
		if filter.QuotationID != "" && p.QuotationID != filter.QuotationID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })

	total := int64(len(out))
	if offset >= len(out) {
		return []Policy{}, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memPolicyRepo) Update(_ context.Context, p Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.policies[p.ID]
	if !ok {
		return ErrPolicyNotFound
	}
	if stored.Version != p.Version {
		return fmt.Errorf("%w: policy was modified concurrently", ErrConflict)
	}
	p.Version++
	r.policies[p.ID] = p
	return nil
}
