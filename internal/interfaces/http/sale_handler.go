package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
)

// SaleHandler maneja ventas y comprobantes.
type SaleHandler struct {
	sales    *sales.ProcessSaleUseCase
	receipts *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler. receipts puede ser nil (sin comprobante PDF).
func NewSaleHandler(uc *sales.ProcessSaleUseCase, receipts *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{sales: uc, receipts: receipts}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta el inventario de cada línea en una sola transacción; si una línea no tiene stock no se persiste nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave para reintentos seguros"
// @Param        body             body    dto.CreateSaleRequest  true   "Cliente, método de pago y líneas"
// @Success      201  {object}  dto.SaleCreatedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	lines := make([]sales.SaleLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.SaleLineInput{ProductID: l.ProductID, LocationID: l.LocationID, Quantity: l.Quantity})
	}
	res, err := h.sales.ProcessSale(c.UserContext(), sales.SaleInput{
		PaymentMethodID: in.PaymentMethodID,
		CustomerID:      in.CustomerID,
		ActorID:         GetUserID(c),
		Lines:           lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleCreatedResponse{
		ID:        res.OrderID,
		Total:     dto.NewMoney(res.Total),
		OrderedAt: res.OrderedAt,
	})
}

// Detail godoc
// @Summary      Detalle de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}   dto.SaleLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Detail(c *fiber.Ctx) error {
	lines, err := h.sales.GetSaleDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSaleLineViews(lines))
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	if h.receipts == nil {
		return fiber.ErrNotImplemented
	}
	pdf, filename, err := h.receipts.DownloadReceipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
