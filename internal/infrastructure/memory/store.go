// Package memory implementa los puertos de persistencia en memoria. Sirve como doble de prueba
// y como STORAGE_DRIVER=memory para demos sin Postgres.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

type stockKey struct {
	companyID   string
	itemID      string
	warehouseID string
}

// data estado completo; se copia entero para deshacer una transacción fallida.
type data struct {
	companies  map[string]entity.Company
	modules    []entity.CompanyModule
	users      map[string]entity.User
	warehouses map[string]entity.Warehouse
	items      map[string]entity.Item
	stock      map[stockKey]entity.Stock
	movements  []entity.StockMovement
	bom        map[string]entity.BOMLine
	records    map[string]entity.ManufacturingRecord
	lines      []entity.ManufacturingRecordLine
}

func newData() data {
	return data{
		companies:  make(map[string]entity.Company),
		users:      make(map[string]entity.User),
		warehouses: make(map[string]entity.Warehouse),
		items:      make(map[string]entity.Item),
		stock:      make(map[stockKey]entity.Stock),
		bom:        make(map[string]entity.BOMLine),
		records:    make(map[string]entity.ManufacturingRecord),
	}
}

func (d data) clone() data {
	out := newData()
	for k, v := range d.companies {
		out.companies[k] = v
	}
	out.modules = append(out.modules, d.modules...)
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.warehouses {
		out.warehouses[k] = v
	}
	for k, v := range d.items {
		out.items[k] = v
	}
	for k, v := range d.stock {
		out.stock[k] = v
	}
	out.movements = append(out.movements, d.movements...)
	for k, v := range d.bom {
		out.bom[k] = v
	}
	for k, v := range d.records {
		out.records[k] = v
	}
	out.lines = append(out.lines, d.lines...)
	return out
}

// Store guarda todas las tablas. Las escrituras fuera de transacción y las transacciones
// completas se serializan con txMu; mu protege los mapas.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// view es la base de cada repositorio: inTx indica que txMu ya está tomado por el TxRunner.
type view struct {
	s    *Store
	inTx bool
}

// write ejecuta fn con exclusión total.
func (v view) write(fn func(d *data) error) error {
	if !v.inTx {
		v.s.txMu.Lock()
		defer v.s.txMu.Unlock()
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(&v.s.d)
}

func (v view) read(fn func(d *data)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(&v.s.d)
}

// Repositorios fuera de transacción.
func (s *Store) Companies() *CompanyRepository { return &CompanyRepository{view{s: s}} }
func (s *Store) Users() *UserRepository { return &UserRepository{view{s: s}} }
func (s *Store) Warehouses() *WarehouseRepository { return &WarehouseRepository{view{s: s}} }
func (s *Store) Items() *ItemRepository { return &ItemRepository{view{s: s}} }
func (s *Store) Stock() *StockRepository { return &StockRepository{view{s: s}} }
func (s *Store) Movements() *StockMovementRepository {
	return &StockMovementRepository{view{s: s}}
}
func (s *Store) BOM() *BOMRepository { return &BOMRepository{view{s: s}} }
func (s *Store) Records() *ManufacturingRecordRepository {
	return &ManufacturingRecordRepository{view{s: s}}
}

// TxRunner transacciones en memoria: una a la vez; si fn falla se restaura la copia previa.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(ctx context.Context, fn func(v view) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	snapshot := r.s.d.clone()
	r.s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			r.restore(snapshot)
			panic(p)
		}
		if err != nil {
			r.restore(snapshot)
		}
	}()
	return fn(view{s: r.s, inTx: true})
}

func (r *TxRunner) restore(snapshot data) {
	r.s.mu.Lock()
	r.s.d = snapshot
	r.s.mu.Unlock()
}

// Run implementa el TxRunner de movimientos de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
) error) error {
	return r.run(ctx, func(v view) error {
		return fn(&StockMovementRepository{v}, &StockRepository{v}, &ItemRepository{v})
	})
}

// RunManufacturing implementa el TxRunner del cálculo de fabricación.
func (r *TxRunner) RunManufacturing(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
	recordRepo repository.ManufacturingRecordRepository,
) error) error {
	return r.run(ctx, func(v view) error {
		return fn(&StockMovementRepository{v}, &StockRepository{v}, &ItemRepository{v}, &BOMRepository{v}, &ManufacturingRecordRepository{v})
	})
}
