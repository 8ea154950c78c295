package dto

import (
	"time"

	"kardex/internal/core/types"
	"kardex/internal/domain/movement"
)

// MovementLineRequest is one line of a movement to post. UnitCost and
// UnitPrice fall back to the article's reference values when omitted.
type MovementLineRequest struct {
	ArticleID string       `json:"articleId" binding:"required"`
	Quantity  int64        `json:"quantity" binding:"required,gt=0"`
	UnitCost  *types.Money `json:"unitCost,omitempty"`
	UnitPrice *types.Money `json:"unitPrice,omitempty"`
}

// PostMovementRequest posts one movement document.
type PostMovementRequest struct {
	WarehouseID string                `json:"warehouseId" binding:"required"`
	TypeCode    string                `json:"typeCode" binding:"required"`
	Date        *time.Time            `json:"date,omitempty"`
	SupplierID  *string               `json:"supplierId,omitempty"`
	Note        string                `json:"note,omitempty"`
	CreatedBy   string                `json:"createdBy,omitempty"`
	Lines       []MovementLineRequest `json:"lines" binding:"required"`
}

// MovementResponse is a posted movement header.
type MovementResponse struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	Date        time.Time `json:"date"`
	WarehouseID string    `json:"warehouseId"`
	TypeCode    string    `json:"typeCode"`
	Direction   string    `json:"direction"`
	Note        string    `json:"note,omitempty"`
	PostedAt    time.Time `json:"postedAt"`
	CreatedBy   string    `json:"createdBy,omitempty"`
}

// FromMovement maps a header to its response.
func FromMovement(h *movement.Header) MovementResponse {
	resp := MovementResponse{
		ID:          h.ID.String(),
		Number:      h.Number,
		Date:        h.Date,
		WarehouseID: h.WarehouseID.String(),
		TypeCode:    h.TypeCode,
		Direction:   string(h.Direction),
		Note:        h.Note,
		PostedAt:    h.PostedAt,
		CreatedBy:   h.CreatedBy,
	}
	return resp
}
