package entity

import "time"

// PriceEntry registro inmutable del historial de precios.
// Seq es el orden de inserción y desempata entradas con el mismo RegisteredAt.
type PriceEntry struct {
	ID           string
	Seq          int64
	ProductID    string
	Price        int64 // unidades menores (centavos)
	RegisteredAt time.Time
}

// Newer indica si e reemplaza a other como precio vigente.
func (e PriceEntry) Newer(other PriceEntry) bool {
	if e.RegisteredAt.Equal(other.RegisteredAt) {
		return e.Seq > other.Seq
	}
	return e.RegisteredAt.After(other.RegisteredAt)
}
