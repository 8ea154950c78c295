package ledger_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/id"
	"kardex/internal/domain/ledger/kardex"
)

func TestKardexQuery_CanonicalOrder(t *testing.T) {
	repo := NewKardexRepo(nil)

	sql, args, err := repo.buildQuery(kardex.Filter{})
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY ts ASC, id ASC")
	assert.Empty(t, args)
}

func TestKardexQuery_FiltersKeepCanonicalOrder(t *testing.T) {
	repo := NewKardexRepo(nil)
	articleID, warehouseID := id.New(), id.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

	sql, args, err := repo.buildQuery(kardex.Filter{
		ArticleID:   &articleID,
		WarehouseID: &warehouseID,
		DateFrom:    &from,
		DateTo:      &to,
		Limit:       50,
		Offset:      100,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "article_id = $1")
	assert.Contains(t, sql, "warehouse_id = $2")
	assert.Contains(t, sql, "ts >= $3")
	assert.Contains(t, sql, "ts <= $4")
	assert.Contains(t, sql, "ORDER BY ts ASC, id ASC")
	assert.Contains(t, sql, "LIMIT 50")
	assert.Contains(t, sql, "OFFSET 100")
	assert.Equal(t, []any{articleID, warehouseID, from, to}, args)
}
