package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"catalogcart/internal/domain/model"
	repo "catalogcart/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// user lists and the id counter live under different prefixes so no
// username can collide with the counter key
const (
	keyCartSeq        = "cart:seq"
	keyCartUserPrefix = "cart:user:"
	redisTxMaxRetries = 10
)

// redisCart is the JSON document stored per cart in the cart:user:{username} list.
type redisCart struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Cost     decimal.Decimal `json:"cost"`
	Contents string          `json:"contents"`
}

func (c redisCart) record() model.Record {
	return model.Record{
		model.FieldID:       c.ID,
		model.FieldUsername: c.Username,
		model.FieldCost:     c.Cost,
		model.FieldContents: c.Contents,
	}
}

// CartRedisRepository stores each user's carts as a redis list of JSON documents.
type CartRedisRepository struct {
	client *redis.Client
}

// DI
func NewCartRedisRepository(client *redis.Client) *CartRedisRepository {
	return &CartRedisRepository{client: client}
}

func cartsKey(username string) string {
	return keyCartUserPrefix + username
}

func (r *CartRedisRepository) ListByUsername(ctx context.Context, username string) ([]model.Record, error) {
	docs, err := r.client.LRange(ctx, cartsKey(username), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	recs := make([]model.Record, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeRedisCart(doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, c.record())
	}
	return recs, nil
}

func (r *CartRedisRepository) AddItem(ctx context.Context, username string, productID int64) error {
	key := cartsKey(username)
	return r.watch(ctx, key, func(tx *redis.Tx) error {
		doc, err := tx.LIndex(ctx, key, 0).Result()
		if errors.Is(err, redis.Nil) {
			id, err := tx.Incr(ctx, keyCartSeq).Result()
			if err != nil {
				return err
			}
			b, err := json.Marshal(redisCart{
				ID:       id,
				Username: username,
				Cost:     decimal.Zero,
				Contents: model.EncodeContents([]int64{productID}),
			})
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.RPush(ctx, key, b)
				return nil
			})
			return err
		}
		if err != nil {
			return err
		}

		c, err := decodeRedisCart(doc)
		if err != nil {
			return err
		}
		ids, err := model.DecodeContents([]byte(c.Contents))
		if err != nil {
			return err
		}
		c.Contents = model.EncodeContents(append(ids, productID))
		return setCartAt(ctx, tx, key, 0, c)
	})
}

func (r *CartRedisRepository) RemoveItem(ctx context.Context, username string, productID int64) error {
	key := cartsKey(username)
	return r.watch(ctx, key, func(tx *redis.Tx) error {
		docs, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}

		for i, doc := range docs {
			c, err := decodeRedisCart(doc)
			if err != nil {
				return err
			}
			ids, err := model.DecodeContents([]byte(c.Contents))
			if err != nil {
				return err
			}
			kept, ok := removeFirst(ids, productID)
			if !ok {
				continue
			}
			c.Contents = model.EncodeContents(kept)
			return setCartAt(ctx, tx, key, int64(i), c)
		}
		return repo.ErrNotFound
	})
}

func (r *CartRedisRepository) DeleteByUsername(ctx context.Context, username string) error {
	return r.client.Del(ctx, cartsKey(username)).Err()
}

// Put appends a raw cart record, for seeding.
func (r *CartRedisRepository) Put(ctx context.Context, rec model.Record) error {
	stored, err := model.DecodeCartRecord(rec)
	if err != nil {
		return err
	}
	b, err := json.Marshal(redisCart{
		ID:       stored.ID,
		Username: stored.Username,
		Cost:     stored.Cost,
		Contents: model.EncodeContents(stored.ProductIDs),
	})
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, cartsKey(stored.Username), b).Err()
}

// watch runs fn in an optimistic transaction on key, retrying on conflicts.
func (r *CartRedisRepository) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < redisTxMaxRetries; i++ {
		err := r.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("cart %s: too many concurrent updates", key)
}

func setCartAt(ctx context.Context, tx *redis.Tx, key string, index int64, c redisCart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LSet(ctx, key, index, b)
		return nil
	})
	return err
}

func decodeRedisCart(doc string) (redisCart, error) {
	var c redisCart
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return redisCart{}, fmt.Errorf("decode cart document: %w", err)
	}
	return c, nil
}
