package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// statusByCode traduce la taxonomía de dominio a códigos HTTP.
var statusByCode = map[string]int{
	domain.CodeInvalidInput:      fiber.StatusBadRequest,
	domain.CodeInvalidReference:  fiber.StatusUnprocessableEntity,
	domain.CodeNotFound:          fiber.StatusNotFound,
	domain.CodePriceNotFound:     fiber.StatusUnprocessableEntity,
	domain.CodeInsufficientStock: fiber.StatusConflict,
	domain.CodeConflict:          fiber.StatusConflict,
	domain.CodeUnauthorized:      fiber.StatusUnauthorized,
}

// respondError escribe el error de dominio como JSON. Los errores inesperados se devuelven
// a fiber para que ErrorHandler los registre y responda 500 sin exponer el detalle.
func respondError(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		return err
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    code,
		Message: err.Error(),
		Details: errorDetails(err),
	})
}

// errorDetails extrae los identificadores de los errores tipados.
func errorDetails(err error) map[string]any {
	var (
		refErr   *domain.ReferenceError
		stockErr *domain.InsufficientStockError
		priceErr *domain.PriceNotFoundError
		depErr   *domain.DependentsError
		valErr   *validationError
	)
	switch {
	case errors.As(err, &valErr):
		return map[string]any{"fields": valErr.fields}
	case errors.As(err, &refErr):
		return map[string]any{"entity": refErr.Entity, "id": refErr.ID}
	case errors.As(err, &stockErr):
		return map[string]any{
			"product_id":  stockErr.ProductID,
			"location_id": stockErr.LocationID,
			"available":   stockErr.Available,
			"requested":   stockErr.Requested,
		}
	case errors.As(err, &priceErr):
		return map[string]any{"product_id": priceErr.ProductID, "as_of": priceErr.AsOf.UTC().Format(time.RFC3339)}
	case errors.As(err, &depErr):
		return map[string]any{
			"product_id": depErr.ProductID,
			"inventory":  depErr.Inventory,
			"movements":  depErr.Movements,
			"sale_lines": depErr.SaleLines,
		}
	}
	return nil
}

// ErrorHandler respuesta por defecto de fiber: rutas inexistentes, body demasiado grande y errores inesperados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    domain.CodeUnexpected,
			Message: "error interno",
		})
	}
}
