package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store almacenamiento en memoria para tests y ejecución local.
// Run serializa las transacciones y trabaja sobre una copia del estado: si fn falla, la copia se
// descarta (rollback); si no, reemplaza al estado vigente (commit).
type Store struct {
	mu    sync.Mutex
	state *state

	dirMu      sync.RWMutex
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	users      map[string]entity.User

	faultMu sync.Mutex
	faults  map[string]error
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		state:      newState(),
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		users:      make(map[string]entity.User),
		faults:     make(map[string]error),
	}
}

// Run ejecuta fn dentro de una transacción aislada.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	tx := repository.Tx{
		Requests:  &requestRepo{st: work, store: s},
		LineItems: &lineItemRepo{st: work, store: s},
		Approvals: &approvalRepo{st: work, store: s},
		Movements: &movementRepo{st: work, store: s},
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = work
	return nil
}

// FailNext hace que la próxima llamada a op ("movements.create", "approvals.create", ...) devuelva err.
func (s *Store) FailNext(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err, ok := s.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults, op)
	return fmt.Errorf("%s: %w", op, err)
}

// AddProduct registra un ítem en el catálogo.
func (s *Store) AddProduct(p entity.Product) {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()
	s.products[p.ID] = p
}

// AddWarehouse registra una bodega en el directorio.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()
	s.warehouses[w.ID] = w
}

// Products devuelve el repositorio de catálogo.
func (s *Store) Products() repository.ProductRepository { return productRepo{s: s} }

// Warehouses devuelve el repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return warehouseRepo{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s: s} }

type state struct {
	seq int64

	requests     map[string]entity.StockOutRequest
	requestOrder []string

	items     map[string]entity.LineItem
	itemOrder []string

	approvals     map[string]entity.Approval
	approvalOrder []string

	movements     map[string]entity.Movement
	movementOrder []string
}

func newState() *state {
	return &state{
		requests:  make(map[string]entity.StockOutRequest),
		items:     make(map[string]entity.LineItem),
		approvals: make(map[string]entity.Approval),
		movements: make(map[string]entity.Movement),
	}
}

func (st *state) clone() *state {
	c := &state{
		seq:           st.seq,
		requests:      make(map[string]entity.StockOutRequest, len(st.requests)),
		requestOrder:  append([]string(nil), st.requestOrder...),
		items:         make(map[string]entity.LineItem, len(st.items)),
		itemOrder:     append([]string(nil), st.itemOrder...),
		approvals:     make(map[string]entity.Approval, len(st.approvals)),
		approvalOrder: append([]string(nil), st.approvalOrder...),
		movements:     make(map[string]entity.Movement, len(st.movements)),
		movementOrder: append([]string(nil), st.movementOrder...),
	}
	for k, v := range st.requests {
		c.requests[k] = v
	}
	for k, v := range st.items {
		c.items[k] = v
	}
	for k, v := range st.approvals {
		c.approvals[k] = v
	}
	for k, v := range st.movements {
		c.movements[k] = v
	}
	return c
}
