package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

var (
	_ repository.StockOutRequestRepository = (*requestRepo)(nil)
	_ repository.LineItemRepository        = (*lineItemRepo)(nil)
	_ repository.ApprovalRepository        = (*approvalRepo)(nil)
	_ repository.MovementRepository        = (*movementRepo)(nil)
	_ repository.ProductRepository         = productRepo{}
	_ repository.WarehouseRepository       = warehouseRepo{}
	_ repository.UserRepository            = userRepo{}
)

// ---------------------------------------------------------------------------
// Solicitudes
// ---------------------------------------------------------------------------

type requestRepo struct {
	st    *state
	store *Store
}

func (r *requestRepo) Create(_ context.Context, req *entity.StockOutRequest) error {
	if err := r.store.fault("requests.create"); err != nil {
		return err
	}
	if _, ok := r.st.requests[req.ID]; ok {
		return fmt.Errorf("create request: id duplicado %s", req.ID)
	}
	r.st.requests[req.ID] = *req
	r.st.requestOrder = append(r.st.requestOrder, req.ID)
	return nil
}

func (r *requestRepo) GetByID(_ context.Context, id string) (*entity.StockOutRequest, error) {
	req, ok := r.st.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

// GetForUpdate no necesita bloquear: Run ya serializa las transacciones.
func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockOutRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *requestRepo) NextNumber(context.Context) (string, error) {
	r.st.seq++
	return fmt.Sprintf("SAL-%06d", r.st.seq), nil
}

func (r *requestRepo) Update(_ context.Context, req *entity.StockOutRequest) error {
	if err := r.store.fault("requests.update"); err != nil {
		return err
	}
	if _, ok := r.st.requests[req.ID]; !ok {
		return fmt.Errorf("update request: %s no existe", req.ID)
	}
	r.st.requests[req.ID] = *req
	return nil
}

func (r *requestRepo) List(_ context.Context, f repository.RequestFilter) ([]*entity.StockOutRequest, error) {
	var list []*entity.StockOutRequest
	// más recientes primero
	for i := len(r.st.requestOrder) - 1; i >= 0; i-- {
		req := r.st.requests[r.st.requestOrder[i]]
		if f.RequesterID != "" && req.RequesterID != f.RequesterID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.OnlyActive && !req.Active {
			continue
		}
		list = append(list, &req)
	}
	return paginate(list, f.Limit, f.Offset), nil
}

// ---------------------------------------------------------------------------
// Líneas
// ---------------------------------------------------------------------------

type lineItemRepo struct {
	st    *state
	store *Store
}

func (r *lineItemRepo) Create(_ context.Context, item *entity.LineItem) error {
	if err := r.store.fault("line_items.create"); err != nil {
		return err
	}
	r.st.items[item.ID] = *item
	r.st.itemOrder = append(r.st.itemOrder, item.ID)
	return nil
}

func (r *lineItemRepo) GetByID(_ context.Context, id string) (*entity.LineItem, error) {
	it, ok := r.st.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *lineItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.LineItem, error) {
	return r.GetByID(ctx, id)
}

func (r *lineItemRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.LineItem, error) {
	var list []*entity.LineItem
	for _, id := range r.st.itemOrder {
		it := r.st.items[id]
		if it.RequestID == requestID {
			list = append(list, &it)
		}
	}
	return list, nil
}

func (r *lineItemRepo) Update(_ context.Context, item *entity.LineItem) error {
	if err := r.store.fault("line_items.update"); err != nil {
		return err
	}
	cur, ok := r.st.items[item.ID]
	if !ok {
		return fmt.Errorf("update line item: %s no existe", item.ID)
	}
	cur.Status = item.Status
	cur.RemainingQuantity = item.RemainingQuantity
	cur.Cancelled = item.Cancelled
	cur.UpdatedAt = item.UpdatedAt
	r.st.items[item.ID] = cur
	return nil
}

// ---------------------------------------------------------------------------
// Aprobaciones
// ---------------------------------------------------------------------------

type approvalRepo struct {
	st    *state
	store *Store
}

func (r *approvalRepo) Create(_ context.Context, a *entity.Approval) error {
	if err := r.store.fault("approvals.create"); err != nil {
		return err
	}
	if _, ok := r.st.approvals[a.ID]; ok {
		return fmt.Errorf("create approval: id duplicado %s", a.ID)
	}
	r.st.approvals[a.ID] = *a
	r.st.approvalOrder = append(r.st.approvalOrder, a.ID)
	return nil
}

func (r *approvalRepo) GetByID(_ context.Context, id string) (*entity.Approval, error) {
	a, ok := r.st.approvals[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *approvalRepo) GetForUpdate(ctx context.Context, id string) (*entity.Approval, error) {
	return r.GetByID(ctx, id)
}

func (r *approvalRepo) ListByLineItem(_ context.Context, lineItemID string) ([]*entity.Approval, error) {
	return r.filter(func(a entity.Approval) bool { return a.LineItemID == lineItemID }), nil
}

func (r *approvalRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.Approval, error) {
	return r.filter(func(a entity.Approval) bool { return a.RequestID == requestID }), nil
}

func (r *approvalRepo) ListChildren(_ context.Context, parentID string) ([]*entity.Approval, error) {
	return r.filter(func(a entity.Approval) bool { return a.ParentApprovalID == parentID }), nil
}

func (r *approvalRepo) filter(keep func(entity.Approval) bool) []*entity.Approval {
	var list []*entity.Approval
	for _, id := range r.st.approvalOrder {
		a := r.st.approvals[id]
		if keep(a) {
			list = append(list, &a)
		}
	}
	return list
}

// ---------------------------------------------------------------------------
// Movimientos
// ---------------------------------------------------------------------------

type movementRepo struct {
	st    *state
	store *Store
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if err := r.store.fault("movements.create"); err != nil {
		return err
	}
	if m.ApprovalID != "" {
		for _, cur := range r.st.movements {
			if cur.ApprovalID == m.ApprovalID {
				return fmt.Errorf("create movement: la aprobación %s ya tiene movimiento", m.ApprovalID)
			}
		}
	}
	r.st.movements[m.ID] = *m
	r.st.movementOrder = append(r.st.movementOrder, m.ID)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	m, ok := r.st.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) GetByApprovalID(_ context.Context, approvalID string) (*entity.Movement, error) {
	for _, id := range r.st.movementOrder {
		m := r.st.movements[id]
		if m.ApprovalID == approvalID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByApprovalIDs(_ context.Context, approvalIDs []string) ([]*entity.Movement, error) {
	want := make(map[string]bool, len(approvalIDs))
	for _, id := range approvalIDs {
		want[id] = true
	}
	var list []*entity.Movement
	for _, id := range r.st.movementOrder {
		m := r.st.movements[id]
		if want[m.ApprovalID] {
			list = append(list, &m)
		}
	}
	return list, nil
}

func (r *movementRepo) ListByItem(_ context.Context, itemID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, id := range r.st.movementOrder {
		m := r.st.movements[id]
		if m.ItemID != itemID || (warehouseID != "" && m.WarehouseID != warehouseID) {
			continue
		}
		list = append(list, &m)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *movementRepo) Totals(_ context.Context, itemID, warehouseID string) (entity.StockTotals, error) {
	var t entity.StockTotals
	for _, m := range r.st.movements {
		if m.ItemID != itemID || m.WarehouseID != warehouseID {
			continue
		}
		switch {
		case m.Type == entity.MovementTypeIn && m.Status == entity.MovementStatusCompleted:
			t.CompletedIn += m.Quantity
		case m.Type == entity.MovementTypeOut && m.Status == entity.MovementStatusCompleted:
			t.CompletedOut += m.Quantity
		case m.Type == entity.MovementTypeOut && m.Status == entity.MovementStatusReserved:
			t.ReservedOut += m.Quantity
		}
	}
	return t, nil
}

func (r *movementRepo) LockStock(context.Context, string, string) error { return nil }

func (r *movementRepo) Complete(_ context.Context, id, completedBy string, at time.Time) (bool, error) {
	if err := r.store.fault("movements.complete"); err != nil {
		return false, err
	}
	m, ok := r.st.movements[id]
	if !ok || m.Status != entity.MovementStatusReserved {
		return false, nil
	}
	m.Status = entity.MovementStatusCompleted
	m.CompletedBy = completedBy
	m.CompletedAt = &at
	r.st.movements[id] = m
	return true, nil
}

// ---------------------------------------------------------------------------
// Directorios (solo lectura para el motor)
// ---------------------------------------------------------------------------

type productRepo struct{ s *Store }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.dirMu.RLock()
	defer r.s.dirMu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type warehouseRepo struct{ s *Store }

func (r warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.dirMu.RLock()
	defer r.s.dirMu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.dirMu.RLock()
	defer r.s.dirMu.RUnlock()
	list := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		w := w
		list = append(list, &w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.dirMu.Lock()
	defer r.s.dirMu.Unlock()
	email := strings.ToLower(u.Email)
	for _, cur := range r.s.users {
		if cur.Email == email {
			return domain.AlreadyExists("email", u.Email)
		}
	}
	stored := *u
	stored.Email = email
	r.s.users[u.ID] = stored
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.dirMu.RLock()
	defer r.s.dirMu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.dirMu.RLock()
	defer r.s.dirMu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
