package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta confirmada.
type ReceiptUseCase struct {
	sales     repository.SalesRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales repository.SalesRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator}
}

// DownloadReceipt devuelve los bytes del PDF y un nombre de archivo sugerido.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.sales.GetOrder(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener venta: %w", err)
	}
	if order == nil {
		return nil, "", fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	lines, err := uc.sales.ListLines(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener líneas: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateReceipt(ctx, order, lines)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar: %w", err)
	}
	short := order.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("venta-%s.pdf", short), nil
}
