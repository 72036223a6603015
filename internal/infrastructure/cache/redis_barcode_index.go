// Package cache implementa la caché de búsqueda por código de barras sobre Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/pkg/config"
)

// keyPrefix namespace de las claves código -> id.
const keyPrefix = "almacen:barcode:"

var _ usecase.BarcodeIndex = (*RedisBarcodeIndex)(nil)

// NewRedisClient crea el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RedisBarcodeIndex implementa usecase.BarcodeIndex con claves que expiran a los ttl.
type RedisBarcodeIndex struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisBarcodeIndex construye el índice. ttl 0 = sin expiración.
func NewRedisBarcodeIndex(rdb *redis.Client, ttl time.Duration) *RedisBarcodeIndex {
	return &RedisBarcodeIndex{rdb: rdb, ttl: ttl}
}

// Key clave Redis del código.
func Key(code string) string {
	return keyPrefix + code
}

// Get devuelve el id asociado al código. ok=false si la clave no existe.
func (c *RedisBarcodeIndex) Get(ctx context.Context, code string) (string, bool, error) {
	id, err := c.rdb.Get(ctx, Key(code)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Set guarda código -> id.
func (c *RedisBarcodeIndex) Set(ctx context.Context, code, productID string) error {
	return c.rdb.Set(ctx, Key(code), productID, c.ttl).Err()
}

// Delete elimina la clave del código (no falla si no existe).
func (c *RedisBarcodeIndex) Delete(ctx context.Context, code string) error {
	return c.rdb.Del(ctx, Key(code)).Err()
}
