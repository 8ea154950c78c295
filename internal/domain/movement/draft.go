package movement

import (
	"context"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/movetype"
)

// Draft accumulates lines for a movement before it is posted.
// It replaces session-scoped staging: callers build a draft, add and
// remove lines, then Finalize exactly once and hand the header to the
// posting engine.
type Draft struct {
	warehouseID id.ID
	typeCode    string
	direction   movetype.Direction
	supplierID  *id.ID
	note        string

	lines []Line
}

// NewDraft starts a draft for the given warehouse and movement type.
func NewDraft(warehouseID id.ID, mt movetype.MovementType) *Draft {
	return &Draft{
		warehouseID: warehouseID,
		typeCode:    mt.Code,
		direction:   mt.Direction,
		lines:       make([]Line, 0),
	}
}

// WithSupplier sets the optional counterparty.
func (d *Draft) WithSupplier(supplierID id.ID) *Draft {
	d.supplierID = &supplierID
	return d
}

// WithNote sets the free-form observation.
func (d *Draft) WithNote(note string) *Draft {
	d.note = note
	return d
}

// AddLine appends a validated line to the draft.
func (d *Draft) AddLine(articleID id.ID, quantity types.Quantity, unitCost, unitPrice types.Money) error {
	if id.IsNil(articleID) {
		return apperror.NewValidation("article is required")
	}
	if !quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity.Int64())
	}
	if unitCost.IsNegative() {
		return apperror.NewValidation("unit cost must not be negative")
	}

	d.lines = append(d.lines, Line{
		LineID:    id.New(),
		LineNo:    len(d.lines) + 1,
		ArticleID: articleID,
		Quantity:  quantity,
		UnitCost:  unitCost,
		UnitPrice: unitPrice,
	})
	return nil
}

// RemoveLine deletes a line by its number and renumbers the rest.
func (d *Draft) RemoveLine(lineNo int) error {
	if lineNo < 1 || lineNo > len(d.lines) {
		return apperror.NewValidation("invalid line number").
			WithDetail("lineNo", lineNo)
	}

	d.lines = append(d.lines[:lineNo-1], d.lines[lineNo:]...)
	for i := range d.lines {
		d.lines[i].LineNo = i + 1
	}
	return nil
}

// Lines returns a copy of the accumulated lines.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Finalize validates the draft and produces the immutable header for
// posting. An empty draft cannot be finalized.
func (d *Draft) Finalize(date time.Time, createdBy string) (*Header, error) {
	if len(d.lines) == 0 {
		return nil, apperror.NewEmptyMovement()
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	h := &Header{
		ID:          id.New(),
		Date:        date,
		WarehouseID: d.warehouseID,
		TypeCode:    d.typeCode,
		Direction:   d.direction,
		SupplierID:  d.supplierID,
		Note:        d.note,
		CreatedBy:   createdBy,
		Lines:       d.Lines(),
	}

	if err := h.Validate(context.Background()); err != nil {
		return nil, err
	}
	return h, nil
}
