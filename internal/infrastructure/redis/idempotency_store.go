// Package redis guarda las respuestas de peticiones idempotentes (ventas y movimientos).
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "posledger"
	idempotencyPrefix = "idempotency"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// IdempotencyStore registros de respuesta por clave Idempotency-Key.
type IdempotencyStore struct {
	store cmdable
	raw   *redis.Client
}

// NewIdempotencyStore conecta con Redis a partir de una URL redis:// y verifica la conexión.
func NewIdempotencyStore(ctx context.Context, url string) (*IdempotencyStore, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &IdempotencyStore{store: raw, raw: raw}, nil
}

// Key arma la clave namespaced: posledger:idempotency:<scope>:<id>.
func (s *IdempotencyStore) Key(scope, id string) string {
	return strings.Join([]string{keyNamespace, idempotencyPrefix, scope, id}, ":")
}

// Get devuelve el registro guardado; found es false si la clave no existe.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// SetNX guarda value solo si la clave no existe todavía.
func (s *IdempotencyStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.store.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Set sobrescribe value (respuesta final sobre la marca de petición en curso).
func (s *IdempotencyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.store.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Del elimina claves (usado al fallar el handler para permitir reintentos).
func (s *IdempotencyStore) Del(ctx context.Context, keys ...string) error {
	if err := s.store.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping verifica la conexión (health check).
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}

// Close libera el cliente.
func (s *IdempotencyStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
