package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, ADJUSTMENT, TRANSFER) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// También expone PostINInTx/PostOUTInTx para que otros casos de uso (fabricación) muevan
// inventario dentro de su propia transacción.
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// Para IN/OUT/ADJUSTMENT: ItemID, WarehouseID, Type, Quantity; UnitCost obligatorio en IN.
// Para TRANSFER: ItemID, FromWarehouseID, ToWarehouseID, Type=TRANSFER, Quantity.
type MovementInputDTO struct {
	CompanyID       string
	UserID          string
	ItemID          string
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	Type            string
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
}

// MovementRef datos comunes de las filas del libro escritas en una misma operación.
type MovementRef struct {
	CompanyID     string
	UserID        string
	TransactionID string
	ReferenceType string
	ReferenceID   string
	Date          time.Time
}

// RegisterMovement valida la entrada, abre una transacción, bloquea las filas de inventory_stock
// involucradas y aplica el movimiento. Devuelve el ID de transacción que agrupa las filas del libro.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (string, error) {
	if err := validateMovement(input); err != nil {
		return "", err
	}

	item, err := uc.itemRepo.GetByID(ctx, input.CompanyID, input.ItemID)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", domain.ErrNotFound
	}

	warehouses := []string{input.WarehouseID}
	if input.Type == entity.MovementTypeTRANSFER {
		warehouses = []string{input.FromWarehouseID, input.ToWarehouseID}
	}
	for _, id := range warehouses {
		wh, err := uc.warehouseRepo.GetByID(ctx, input.CompanyID, id)
		if err != nil {
			return "", err
		}
		if wh == nil {
			return "", domain.ErrNotFound
		}
	}

	now := time.Now()
	ref := MovementRef{
		CompanyID:     input.CompanyID,
		UserID:        input.UserID,
		TransactionID: uuid.New().String(),
		ReferenceType: entity.ReferenceManual,
		Date:          now,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
	) error {
		// Releer el artículo bloqueado: el costo y el total pudieron cambiar.
		locked, err := itemRepo.GetForUpdate(ctx, input.CompanyID, input.ItemID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		switch input.Type {
		case entity.MovementTypeIN:
			return uc.doIN(ctx, movRepo, stockRepo, itemRepo, locked, input, ref)
		case entity.MovementTypeOUT:
			return uc.doOUT(ctx, movRepo, stockRepo, itemRepo, locked, input, ref)
		case entity.MovementTypeADJUSTMENT:
			return uc.doADJUSTMENT(ctx, movRepo, stockRepo, itemRepo, locked, input, ref)
		case entity.MovementTypeTRANSFER:
			return uc.doTRANSFER(ctx, movRepo, stockRepo, locked, input, ref)
		}
		return domain.ErrInvalidInput
	})
	if err != nil {
		return "", err
	}
	return ref.TransactionID, nil
}

func validateMovement(input MovementInputDTO) error {
	if input.CompanyID == "" || input.ItemID == "" {
		return domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIN:
		if input.WarehouseID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero) {
			return domain.NewValidationError("unit_cost", "obligatorio y no negativo en entradas")
		}
	case entity.MovementTypeOUT:
		if input.WarehouseID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
	case entity.MovementTypeADJUSTMENT:
		if input.WarehouseID == "" || input.Quantity.IsZero() {
			return domain.NewValidationError("quantity", "el ajuste no puede ser cero")
		}
		if input.UnitCost != nil && input.UnitCost.LessThan(decimal.Zero) {
			return domain.NewValidationError("unit_cost", "no puede ser negativo")
		}
	case entity.MovementTypeTRANSFER:
		if input.FromWarehouseID == "" || input.ToWarehouseID == "" {
			return domain.NewValidationError("warehouse", "from_warehouse_id y to_warehouse_id son obligatorios")
		}
		if input.FromWarehouseID == input.ToWarehouseID {
			return domain.NewValidationError("warehouse", "origen y destino deben ser distintos")
		}
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
	default:
		return domain.NewValidationError("type", "tipo de movimiento desconocido %q", input.Type)
	}
	if err := domain.CheckScale("quantity", input.Quantity); err != nil {
		return err
	}
	if input.UnitCost != nil {
		return domain.CheckScale("unit_cost", *input.UnitCost)
	}
	return nil
}

// PostINInTx suma quantity a una fila de stock (y un artículo) ya bloqueados por el caller, recalcula el costo
// promedio ponderado del artículo, mantiene el total desnormalizado y escribe la fila del libro.
func (uc *RegisterMovementUseCase) PostINInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	stock *entity.Stock,
	item *entity.Item,
	quantity, unitCost decimal.Decimal,
	ref MovementRef,
) error {
	newCost := inventory.CostCalculator(item.OnHand, item.Cost, quantity, unitCost)
	if err := itemRepo.UpdateCost(ctx, item.ID, newCost); err != nil {
		return err
	}
	return uc.post(ctx, movRepo, stockRepo, itemRepo, stock, item, entity.MovementTypeIN, quantity, unitCost, ref, func() {
		item.Cost = newCost
	})
}

// PostOUTInTx descuenta quantity de una fila de stock ya bloqueada por el caller al costo promedio
// vigente. Nunca deja existencia negativa: devuelve ErrInsufficientStock.
func (uc *RegisterMovementUseCase) PostOUTInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	stock *entity.Stock,
	item *entity.Item,
	quantity decimal.Decimal,
	ref MovementRef,
) error {
	if stock.Quantity.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	return uc.post(ctx, movRepo, stockRepo, itemRepo, stock, item, entity.MovementTypeOUT, quantity.Neg(), item.Cost, ref, nil)
}

// post aplica delta a la fila de stock y al total del artículo y registra el movimiento.
func (uc *RegisterMovementUseCase) post(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	stock *entity.Stock,
	item *entity.Item,
	movType string,
	delta, unitCost decimal.Decimal,
	ref MovementRef,
	after func(),
) error {
	stock.Quantity = stock.Quantity.Add(delta)
	stock.UpdatedAt = ref.Date
	if err := stockRepo.Upsert(ctx, stock); err != nil {
		return err
	}
	if err := itemRepo.AdjustOnHand(ctx, item.ID, delta); err != nil {
		return err
	}
	item.OnHand = item.OnHand.Add(delta)
	if after != nil {
		after()
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     ref.CompanyID,
		TransactionID: ref.TransactionID,
		ItemID:        item.ID,
		WarehouseID:   stock.WarehouseID,
		Type:          movType,
		Quantity:      delta,
		UnitCost:      unitCost,
		TotalCost:     domain.RoundScale(delta.Mul(unitCost)),
		ReferenceType: ref.ReferenceType,
		ReferenceID:   ref.ReferenceID,
		Date:          ref.Date,
		CreatedAt:     ref.Date,
		CreatedBy:     ref.UserID,
	}
	return movRepo.Create(ctx, mov)
}

// doIN: bloquea fila y delega en PostINInTx.
func (uc *RegisterMovementUseCase) doIN(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	item *entity.Item,
	input MovementInputDTO,
	ref MovementRef,
) error {
	stock, err := stockRepo.GetForUpdate(ctx, input.CompanyID, item.ID, input.WarehouseID)
	if err != nil {
		return err
	}
	return uc.PostINInTx(ctx, movRepo, stockRepo, itemRepo, stock, item, input.Quantity, *input.UnitCost, ref)
}

// doOUT: bloquea fila, verifica existencia >= cantidad solicitada y descuenta.
func (uc *RegisterMovementUseCase) doOUT(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	item *entity.Item,
	input MovementInputDTO,
	ref MovementRef,
) error {
	stock, err := stockRepo.GetForUpdate(ctx, input.CompanyID, item.ID, input.WarehouseID)
	if err != nil {
		return err
	}
	return uc.PostOUTInTx(ctx, movRepo, stockRepo, itemRepo, stock, item, input.Quantity, ref)
}

// doADJUSTMENT: positivo como IN (al costo indicado o al promedio vigente), negativo como OUT.
// Se registra con tipo ADJUSTMENT.
func (uc *RegisterMovementUseCase) doADJUSTMENT(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	item *entity.Item,
	input MovementInputDTO,
	ref MovementRef,
) error {
	stock, err := stockRepo.GetForUpdate(ctx, input.CompanyID, item.ID, input.WarehouseID)
	if err != nil {
		return err
	}
	if input.Quantity.GreaterThan(decimal.Zero) {
		unitCost := item.Cost
		if input.UnitCost != nil {
			unitCost = *input.UnitCost
		}
		newCost := inventory.CostCalculator(item.OnHand, item.Cost, input.Quantity, unitCost)
		if err := itemRepo.UpdateCost(ctx, item.ID, newCost); err != nil {
			return err
		}
		return uc.post(ctx, movRepo, stockRepo, itemRepo, stock, item, entity.MovementTypeADJUSTMENT, input.Quantity, unitCost, ref, func() {
			item.Cost = newCost
		})
	}
	if stock.Quantity.LessThan(input.Quantity.Neg()) {
		return domain.ErrInsufficientStock
	}
	return uc.post(ctx, movRepo, stockRepo, itemRepo, stock, item, entity.MovementTypeADJUSTMENT, input.Quantity, item.Cost, ref, nil)
}

// doTRANSFER: resta de bodega origen y suma en destino en la misma transacción; dos filas en el libro.
// El total del artículo no cambia. Las filas se bloquean en orden de bodega para evitar interbloqueos.
func (uc *RegisterMovementUseCase) doTRANSFER(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	item *entity.Item,
	input MovementInputDTO,
	ref MovementRef,
) error {
	first, second := input.FromWarehouseID, input.ToWarehouseID
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*entity.Stock, 2)
	for _, wh := range []string{first, second} {
		s, err := stockRepo.GetForUpdate(ctx, input.CompanyID, item.ID, wh)
		if err != nil {
			return err
		}
		locked[wh] = s
	}
	origin, dest := locked[input.FromWarehouseID], locked[input.ToWarehouseID]
	if origin.Quantity.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}
	origin.Quantity = origin.Quantity.Sub(input.Quantity)
	dest.Quantity = dest.Quantity.Add(input.Quantity)
	origin.UpdatedAt = ref.Date
	dest.UpdatedAt = ref.Date
	if err := stockRepo.Upsert(ctx, origin); err != nil {
		return err
	}
	if err := stockRepo.Upsert(ctx, dest); err != nil {
		return err
	}
	for _, leg := range []struct {
		warehouseID string
		qty         decimal.Decimal
	}{
		{input.FromWarehouseID, input.Quantity.Neg()},
		{input.ToWarehouseID, input.Quantity},
	} {
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     ref.CompanyID,
			TransactionID: ref.TransactionID,
			ItemID:        item.ID,
			WarehouseID:   leg.warehouseID,
			Type:          entity.MovementTypeTRANSFER,
			Quantity:      leg.qty,
			UnitCost:      item.Cost,
			TotalCost:     domain.RoundScale(leg.qty.Mul(item.Cost)),
			ReferenceType: ref.ReferenceType,
			Date:          ref.Date,
			CreatedAt:     ref.Date,
			CreatedBy:     ref.UserID,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}
