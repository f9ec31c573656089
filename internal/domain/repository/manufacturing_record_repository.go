package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ManufacturingRecordFilter filtros para listar órdenes de fabricación.
type ManufacturingRecordFilter struct {
	Status string
	ItemID string
	Limit  int
	Offset int
}

// ManufacturingRecordRepository puerto de persistencia de órdenes de fabricación y su desglose.
type ManufacturingRecordRepository interface {
	Create(ctx context.Context, record *entity.ManufacturingRecord) error
	GetByID(ctx context.Context, companyID, id string) (*entity.ManufacturingRecord, error)
	// GetForUpdate bloquea la cabecera para serializar cálculos concurrentes sobre la misma orden.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.ManufacturingRecord, error)
	Update(ctx context.Context, record *entity.ManufacturingRecord) error
	List(ctx context.Context, companyID string, filter ManufacturingRecordFilter) ([]*entity.ManufacturingRecord, error)
	SoftDelete(ctx context.Context, companyID, id string, at time.Time) error
	CreateLines(ctx context.Context, lines []*entity.ManufacturingRecordLine) error
	ListLines(ctx context.Context, recordID string) ([]*entity.ManufacturingRecordLine, error)
}
