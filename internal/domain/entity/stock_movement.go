package entity

import "time"

// MovementType tipo de movimiento del libro de stock (conjunto cerrado).
type MovementType string

const (
	MovementCreation MovementType = "CREATION" // alta de inventario con stock inicial
	MovementPurchase MovementType = "PURCHASE"
	MovementInbound  MovementType = "INBOUND"
	MovementSale     MovementType = "SALE"
	MovementOutbound MovementType = "OUTBOUND"
	MovementEdit     MovementType = "EDIT" // solo traza de auditoría, cantidad 0
)

// MovementTypes lista los tipos válidos.
var MovementTypes = []MovementType{
	MovementCreation, MovementPurchase, MovementInbound,
	MovementSale, MovementOutbound, MovementEdit,
}

// ParseMovementType valida s contra el conjunto cerrado.
func ParseMovementType(s string) (MovementType, bool) {
	t := MovementType(s)
	return t, t.Valid()
}

// Valid indica si t pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	for _, v := range MovementTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Delta devuelve el efecto firmado de q unidades sobre el disponible.
func (t MovementType) Delta(q int64) int64 {
	switch t {
	case MovementCreation, MovementPurchase, MovementInbound:
		return q
	case MovementSale, MovementOutbound:
		return -q
	default:
		return 0
	}
}

// StockMovement fila del libro de movimientos. Nunca se actualiza ni se borra.
type StockMovement struct {
	ID             string
	Seq            int64
	ProductID      string
	LocationID     string
	Type           MovementType
	Quantity       int64 // magnitud sin signo
	OccurredAt     time.Time
	ActorID        string
	CorrelationKey string
	Comment        string
}

// CorrelationKey arma la clave "<TIPO>-<primeros 8 caracteres>" del id de correlación.
func CorrelationKey(t MovementType, correlationID string) string {
	short := correlationID
	if len(short) > 8 {
		short = short[:8]
	}
	return string(t) + "-" + short
}

// MovementView fila del historial de un producto con nombres resueltos.
type MovementView struct {
	ID              string
	OccurredAt      time.Time
	Type            MovementType
	Quantity        int64
	CorrelationKey  string
	Comment         string
	LocationID      string
	LocationName    string
	LocationAddress string
	ActorID         string
	ActorName       string
}
