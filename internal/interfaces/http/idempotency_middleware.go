package http

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// HeaderIdempotencyKey header que identifica reintentos de la misma petición.
const HeaderIdempotencyKey = "Idempotency-Key"

const headerIdempotentReplay = "Idempotent-Replayed"

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore almacén clave/valor con escritura condicional (Redis en producción).
type IdempotencyStore interface {
	Key(scope, id string) string
	Get(ctx context.Context, key string) (string, bool, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type idempotencyRecord struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	Body        string `json:"body,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency guarda la primera respuesta (< 500) de cada Idempotency-Key y la repite en los reintentos.
// Mientras la primera petición no termina, un duplicado responde 409; la misma clave con otro body, 422.
// Sin header o sin store la petición pasa sin cambios.
func Idempotency(store IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		idemKey := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if store == nil || idemKey == "" {
			return c.Next()
		}
		ctx := c.UserContext()
		requestHash := hashBody(c.Body())
		key := store.Key(buildScope(c), idemKey)

		pending, _ := json.Marshal(idempotencyRecord{Pending: true, RequestHash: requestHash})
		acquired, err := store.SetNX(ctx, key, string(pending), ttl)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: reservar clave")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la idempotencia, intente más tarde",
			})
		}
		if !acquired {
			return replayStored(c, store, key, requestHash)
		}

		if err := c.Next(); err != nil {
			_ = store.Del(ctx, key)
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			_ = store.Del(ctx, key)
			return nil
		}
		record := idempotencyRecord{
			Status:      status,
			Body:        base64.StdEncoding.EncodeToString(c.Response().Body()),
			ContentType: string(c.Response().Header.ContentType()),
			RequestHash: requestHash,
		}
		payload, err := json.Marshal(record)
		if err != nil {
			log.Error().Err(err).Msg("idempotencia: serializar respuesta")
			return nil
		}
		if err := store.Set(ctx, key, string(payload), ttl); err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: guardar respuesta")
		}
		return nil
	}
}

func replayStored(c *fiber.Ctx, store IdempotencyStore, key, requestHash string) error {
	stored, found, err := store.Get(c.UserContext(), key)
	if err != nil {
		return err
	}
	if !found {
		// La clave expiró o fue liberada entre SetNX y Get: el cliente puede reintentar.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "reintente la petición"})
	}
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return err
	}
	if record.RequestHash != requestHash {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "IDEMPOTENCY_KEY_REUSED", Message: "Idempotency-Key reutilizada con otro cuerpo",
		})
	}
	if record.Pending {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "IDEMPOTENCY_IN_PROGRESS", Message: "la petición original sigue en curso",
		})
	}
	body, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		return err
	}
	if record.ContentType != "" {
		c.Set(fiber.HeaderContentType, record.ContentType)
	}
	c.Set(headerIdempotentReplay, "true")
	return c.Status(record.Status).Send(body)
}

// buildScope separa las claves por actor, método y ruta.
func buildScope(c *fiber.Ctx) string {
	return strings.Join([]string{GetUserID(c), c.Method(), c.Path()}, "|")
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}
