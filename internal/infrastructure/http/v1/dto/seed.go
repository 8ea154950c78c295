package dto

import (
	"time"

	"kardex/internal/core/types"
)

// CreateSeedRequest records the starting balance for a pair.
type CreateSeedRequest struct {
	ArticleID   string      `json:"articleId" binding:"required"`
	WarehouseID string      `json:"warehouseId" binding:"required"`
	Quantity    int64       `json:"quantity" binding:"min=0"`
	UnitCost    types.Money `json:"unitCost"`
	Date        *time.Time  `json:"date,omitempty"`
}

// AdjustSeedRequest corrects a seeded balance.
type AdjustSeedRequest struct {
	Quantity int64       `json:"quantity" binding:"min=0"`
	UnitCost types.Money `json:"unitCost"`
	Reason   string      `json:"reason,omitempty"`
}
