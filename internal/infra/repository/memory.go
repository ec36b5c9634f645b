package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalogcart/internal/domain/model"
	repo "catalogcart/internal/repository"

	"github.com/shopspring/decimal"
)

// MemoryProductRepository keeps product records in insertion order.
type MemoryProductRepository struct {
	mu          sync.Mutex
	records     []model.Record
	adjustments []model.InventoryAdjustment
	nextID      int64
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{nextID: 1}
}

func (r *MemoryProductRepository) List(ctx context.Context) ([]model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, copyRecord(rec))
	}
	return out, nil
}

func (r *MemoryProductRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, repo.ErrNotFound
	}
	return copyRecord(r.records[i]), nil
}

// Create stores rec, assigning the next id when rec has none.
func (r *MemoryProductRepository) Create(ctx context.Context, rec model.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyRecord(rec)
	if stored.Has(model.FieldID) {
		id, err := stored.Int64(model.FieldID)
		if err != nil {
			return err
		}
		if r.indexOf(id) >= 0 {
			return fmt.Errorf("product %d: %w", id, repo.ErrDuplicate)
		}
		if id >= r.nextID {
			r.nextID = id + 1
		}
	} else {
		stored[model.FieldID] = r.nextID
		r.nextID++
	}
	r.records = append(r.records, stored)
	return nil
}

func (r *MemoryProductRepository) UpdateQty(ctx context.Context, id int64, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return repo.ErrNotFound
	}

	var before int64
	if r.records[i].Has(model.FieldQty) {
		before, _ = r.records[i].Int64(model.FieldQty)
	}
	r.records[i][model.FieldQty] = qty
	r.adjustments = append(r.adjustments, model.InventoryAdjustment{
		ID:        int64(len(r.adjustments) + 1),
		ProductID: id,
		Before:    before,
		After:     qty,
		Delta:     qty - before,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *MemoryProductRepository) ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.InventoryAdjustment{}
	for _, adj := range r.adjustments {
		if adj.ProductID == productID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) indexOf(id int64) int {
	for i, rec := range r.records {
		if got, err := rec.Int64(model.FieldID); err == nil && got == id {
			return i
		}
	}
	return -1
}

// MemoryCartRepository keeps cart records in creation order.
type MemoryCartRepository struct {
	mu     sync.Mutex
	carts  []model.StoredCart
	nextID int64
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{nextID: 1}
}

// Put stores a raw cart record verbatim, for seeding.
func (r *MemoryCartRepository) Put(rec model.Record) error {
	stored, err := model.DecodeCartRecord(rec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if stored.ID >= r.nextID {
		r.nextID = stored.ID + 1
	}
	r.carts = append(r.carts, stored)
	return nil
}

func (r *MemoryCartRepository) ListByUsername(ctx context.Context, username string) ([]model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.Record{}
	for _, c := range r.carts {
		if c.Username == username {
			out = append(out, c.Record())
		}
	}
	return out, nil
}

func (r *MemoryCartRepository) AddItem(ctx context.Context, username string, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.carts {
		if r.carts[i].Username == username {
			r.carts[i].ProductIDs = append(r.carts[i].ProductIDs, productID)
			return nil
		}
	}
	r.carts = append(r.carts, model.StoredCart{
		ID:         r.nextID,
		Username:   username,
		Cost:       decimal.Zero,
		ProductIDs: []int64{productID},
	})
	r.nextID++
	return nil
}

func (r *MemoryCartRepository) RemoveItem(ctx context.Context, username string, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.carts {
		if r.carts[i].Username != username {
			continue
		}
		if ids, ok := removeFirst(r.carts[i].ProductIDs, productID); ok {
			r.carts[i].ProductIDs = ids
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *MemoryCartRepository) DeleteByUsername(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.carts[:0]
	for _, c := range r.carts {
		if c.Username != username {
			kept = append(kept, c)
		}
	}
	r.carts = kept
	return nil
}

func copyRecord(rec model.Record) model.Record {
	out := make(model.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// removeFirst drops the first occurrence of id, reporting whether it was present.
func removeFirst(ids []int64, id int64) ([]int64, bool) {
	for i, got := range ids {
		if got == id {
			out := make([]int64, 0, len(ids)-1)
			out = append(out, ids[:i]...)
			return append(out, ids[i+1:]...), true
		}
	}
	return ids, false
}
