package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
)

// InventoryHandler maneja movimientos, consultas de stock y conciliación.
type InventoryHandler struct {
	engine        *inventory.MovementEngine
	queries       *inventory.QueryUseCase
	replenishment *inventory.ReplenishmentUseCase
	reconcile     *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	engine *inventory.MovementEngine,
	queries *inventory.QueryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	reconcile *inventory.ReconcileUseCase,
) *InventoryHandler {
	return &InventoryHandler{engine: engine, queries: queries, replenishment: replenishment, reconcile: reconcile}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                       false  "Clave para reintentos seguros"
// @Param        body             body    dto.RegisterMovementRequest  true   "product_id, location_id, type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	mov, err := h.engine.RecordMovement(c.UserContext(), inventory.MovementInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Comment:    in.Comment,
		ActorID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(mov))
}

// List godoc
// @Summary      Listar inventario con precio vigente y valor de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.InventoryItemResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.queries.ListInventory(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromInventoryViews(list))
}

// History godoc
// @Summary      Historial de movimientos del producto (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	list, err := h.queries.ListMovementHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMovementViews(list))
}

// Availability godoc
// @Summary      Disponibilidad total del producto en todas las ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del producto"
// @Param        quantity  query  int     false  "Cantidad requerida"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/availability [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	qty, err := queryInt(c, "quantity", 0)
	if err != nil {
		return respondError(c, err)
	}
	av, err := h.queries.CheckAvailability(c.UserContext(), c.Params("id"), qty)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.AvailabilityResponse{
		ProductID:  av.ProductID,
		Requested:  av.Requested,
		Total:      av.Total,
		Sufficient: av.Sufficient,
		Locations:  make([]dto.LocationStockResponse, 0, len(av.Locations)),
	}
	for _, l := range av.Locations {
		out.Locations = append(out.Locations, dto.LocationStockResponse{LocationID: l.LocationID, Available: l.Available})
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Registros bajo su mínimo con la cantidad sugerida para volver al máximo, ordenados por déficit.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Reconcile godoc
// @Summary      Conciliar inventario contra el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.reconcile.Reconcile(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromLedgerBalances(report.Checked, report.Mismatches))
}
