package repository

import (
	"context"
	"testing"

	"catalogcart/internal/domain/model"
	repo "catalogcart/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// one connection, one in-memory database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(gdb))
	return gdb
}

// =====================
// Products
// =====================

func TestProductGormRepository_CreateListFind(t *testing.T) {
	ctx := context.Background()
	r := NewProductGormRepository(newTestDB(t))

	require.NoError(t, r.Create(ctx, model.Record{"name": "A", "description": "a", "cost": "9.99", "qty": 5}))
	require.NoError(t, r.Create(ctx, model.Record{"name": "B", "description": "b", "cost": 3}))

	recs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first, err := model.LoadProduct(recs[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "A", first.Name)
	assert.Equal(t, int64(5), first.Qty)
	assert.True(t, decimal.RequireFromString("9.99").Equal(first.Cost))

	rec, err := r.FindByID(ctx, 2)
	require.NoError(t, err)
	second, err := model.LoadProduct(rec)
	require.NoError(t, err)
	assert.Equal(t, "B", second.Name)
	assert.Equal(t, int64(0), second.Qty)
}

func TestProductGormRepository_CreateRequiresName(t *testing.T) {
	r := NewProductGormRepository(newTestDB(t))

	err := r.Create(context.Background(), model.Record{"cost": 1})
	assert.ErrorIs(t, err, model.ErrMissingField)
}

func TestProductGormRepository_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	r := NewProductGormRepository(newTestDB(t))

	require.NoError(t, r.Create(ctx, model.Record{"id": 7, "name": "A", "cost": 1}))
	err := r.Create(ctx, model.Record{"id": 7, "name": "B", "cost": 2})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	recs, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestProductGormRepository_FindByIDMissing(t *testing.T) {
	r := NewProductGormRepository(newTestDB(t))

	_, err := r.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGormRepository_UpdateQtyRecordsAdjustment(t *testing.T) {
	ctx := context.Background()
	r := NewProductGormRepository(newTestDB(t))
	require.NoError(t, r.Create(ctx, model.Record{"name": "A", "cost": 1, "qty": 5}))

	require.NoError(t, r.UpdateQty(ctx, 1, 8))
	require.NoError(t, r.UpdateQty(ctx, 1, 0))

	rec, err := r.FindByID(ctx, 1)
	require.NoError(t, err)
	qty, err := rec.Int64("qty")
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)

	adjs, err := r.ListAdjustments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, adjs, 2)
	assert.Equal(t, int64(3), adjs[0].Delta)
	assert.Equal(t, int64(8), adjs[1].Before)
	assert.Equal(t, int64(-8), adjs[1].Delta)
}

func TestProductGormRepository_UpdateQtyMissing(t *testing.T) {
	ctx := context.Background()
	r := NewProductGormRepository(newTestDB(t))

	assert.ErrorIs(t, r.UpdateQty(ctx, 99, 1), repo.ErrNotFound)

	adjs, err := r.ListAdjustments(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, adjs)
}

// =====================
// Carts
// =====================

func TestCartGormRepository_Membership(t *testing.T) {
	ctx := context.Background()
	r := NewCartGormRepository(newTestDB(t))

	recs, err := r.ListByUsername(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, r.AddItem(ctx, "u", 1))
	require.NoError(t, r.AddItem(ctx, "u", 2))
	require.NoError(t, r.AddItem(ctx, "v", 2))
	require.NoError(t, r.AddItem(ctx, "u", 1))

	recs, err = r.ListByUsername(ctx, "u")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "[1,2,1]", recs[0]["contents"])

	require.NoError(t, r.RemoveItem(ctx, "u", 1))
	assert.ErrorIs(t, r.RemoveItem(ctx, "u", 5), repo.ErrNotFound)

	recs, err = r.ListByUsername(ctx, "u")
	require.NoError(t, err)
	stored, err := model.DecodeCartRecord(recs[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, stored.ProductIDs)
	assert.True(t, decimal.Zero.Equal(stored.Cost))

	require.NoError(t, r.DeleteByUsername(ctx, "u"))
	recs, err = r.ListByUsername(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = r.ListByUsername(ctx, "v")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestCartGormRepository_SeveralRecordsPerUser(t *testing.T) {
	ctx := context.Background()
	r := NewCartGormRepository(newTestDB(t))

	require.NoError(t, r.Put(ctx, model.Record{"id": 1, "username": "u", "cost": "10", "contents": "[1,2]"}))
	require.NoError(t, r.Put(ctx, model.Record{"id": 2, "username": "u", "cost": "4", "contents": "[3]"}))

	require.NoError(t, r.RemoveItem(ctx, "u", 3))
	require.NoError(t, r.AddItem(ctx, "u", 4))

	recs, err := r.ListByUsername(ctx, "u")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "[1,2,4]", recs[0]["contents"])
	assert.Equal(t, "[]", recs[1]["contents"])
}

func TestCartGormRepository_MalformedStoredContents(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	r := NewCartGormRepository(gdb)

	require.NoError(t, gdb.Create(&cartRow{Username: "u", Cost: decimal.Zero, Contents: "__import__('os')"}).Error)

	// listing hands the raw text back; decoding is the caller's job
	recs, err := r.ListByUsername(ctx, "u")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	_, err = model.DecodeCartRecord(recs[0])
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.ErrorIs(t, r.AddItem(ctx, "u", 1), model.ErrValidation)
}
