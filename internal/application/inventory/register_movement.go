package inventory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	txID, err := uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID:       companyID,
		UserID:          userID,
		ItemID:          in.ItemID,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterMovementResponse{TransactionID: txID}, nil
}
