package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidReference  = errors.New("referencia inexistente")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPriceNotFound     = errors.New("el producto no tiene precio vigente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrUnauthorized      = errors.New("no autorizado")
)

// ReferenceError indica que una entidad referenciada (categoría, proveedor, ubicación...) no existe.
type ReferenceError struct {
	Entity string
	ID     string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrInvalidReference.Error(), e.Entity, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrInvalidReference }

// InsufficientStockError detalla el faltante de un producto en una ubicación.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s en ubicación %s (disponible %d, solicitado %d)",
		ErrInsufficientStock.Error(), e.ProductID, e.LocationID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PriceNotFoundError indica que no hay precio registrado en o antes de AsOf.
type PriceNotFoundError struct {
	ProductID string
	AsOf      time.Time
}

func (e *PriceNotFoundError) Error() string {
	return fmt.Sprintf("%s: producto %s al %s", ErrPriceNotFound.Error(), e.ProductID, e.AsOf.UTC().Format(time.RFC3339))
}

func (e *PriceNotFoundError) Unwrap() error { return ErrPriceNotFound }

// DependentsError se devuelve al eliminar un producto que aún tiene inventario, movimientos o ventas.
type DependentsError struct {
	ProductID string
	Inventory int64
	Movements int64
	SaleLines int64
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("%s: producto %s tiene %d registros de inventario, %d movimientos y %d líneas de venta",
		ErrConflict.Error(), e.ProductID, e.Inventory, e.Movements, e.SaleLines)
}

func (e *DependentsError) Unwrap() error { return ErrConflict }

// Códigos estables para respuestas HTTP y métricas.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidReference  = "INVALID_REFERENCE"
	CodeNotFound          = "NOT_FOUND"
	CodePriceNotFound     = "PRICE_NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeUnexpected        = "INTERNAL_ERROR"
)

// ErrorCode clasifica err según la taxonomía de dominio.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrInvalidReference):
		return CodeInvalidReference
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrPriceNotFound):
		return CodePriceNotFound
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeUnexpected
	}
}
