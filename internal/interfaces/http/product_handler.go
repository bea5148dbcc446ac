package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
)

// ProductHandler maneja las peticiones HTTP de productos.
type ProductHandler struct {
	lifecycle *inventory.ProductLifecycleUseCase
	queries   *inventory.QueryUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(lifecycle *inventory.ProductLifecycleUseCase, queries *inventory.QueryUseCase) *ProductHandler {
	return &ProductHandler{lifecycle: lifecycle, queries: queries}
}

// Create godoc
// @Summary      Crear producto con precio e inventario inicial
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Producto, precio (unidades menores) e inventario inicial"
// @Success      201   {object}  dto.IDResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	id, err := h.lifecycle.Create(c.UserContext(), inventory.CreateProductInput{
		ID:               in.ID,
		Name:             in.Name,
		CategoryID:       in.CategoryID,
		SupplierID:       in.SupplierID,
		StateID:          in.StateID,
		Price:            in.Price,
		LocationID:       in.LocationID,
		InitialAvailable: in.InitialAvailable,
		Minimum:          in.Minimum,
		Maximum:          in.Maximum,
		ActorID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id})
}

// Update godoc
// @Summary      Editar producto, precio y límites de inventario
// @Description  Siempre registra un movimiento EDIT en la ubicación indicada.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	err := h.lifecycle.UpdateWithInventory(c.UserContext(), inventory.UpdateProductInput{
		ProductID:       c.Params("id"),
		Name:            in.Name,
		CategoryID:      in.CategoryID,
		SupplierID:      in.SupplierID,
		StateID:         in.StateID,
		Price:           in.Price,
		UpdatePrice:     in.UpdatePrice,
		LocationID:      in.LocationID,
		Minimum:         in.Minimum,
		Maximum:         in.Maximum,
		InitialQuantity: in.InitialQuantity,
		Comment:         in.Comment,
		ActorID:         GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Rechazado con 409 si el producto tiene inventario, movimientos o ventas.
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Search godoc
// @Summary      Buscar productos por nombre con su precio vigente
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  false  "Texto a buscar (sin distinguir mayúsculas ni tildes)"
// @Param        limit  query  int     false  "Máximo de resultados (1-100, default 20)"
// @Success      200  {array}   dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.queries.SearchProducts(c.UserContext(), c.Query("q"), int(limit))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.FromProductPriceView(v))
	}
	return c.JSON(out)
}

// PriceHistory godoc
// @Summary      Historial de precios del producto (más reciente primero)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.PriceEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices [get]
func (h *ProductHandler) PriceHistory(c *fiber.Ctx) error {
	list, err := h.queries.ListPriceHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPriceEntries(list))
}
