package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

type salesRepo struct {
	s  *Store
	tx bool
}

var _ repository.SalesRepository = (*salesRepo)(nil)

func (r *salesRepo) CreateOrder(_ context.Context, o *entity.SalesOrder) error {
	return r.s.write(r.tx, func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return fmt.Errorf("create order: %w", domain.ErrConflict)
		}
		if o.OrderedAt.IsZero() {
			o.OrderedAt = r.s.now()
		}
		header := *o
		header.Lines = nil
		st.orders[o.ID] = header
		return nil
	})
}

func (r *salesRepo) CreateLine(_ context.Context, l *entity.SalesOrderLine) error {
	return r.s.write(r.tx, func(st *state) error {
		if _, ok := st.orders[l.OrderID]; !ok {
			return fmt.Errorf("create line: %w: orden %s", domain.ErrInvalidReference, l.OrderID)
		}
		if st.priceByID(l.PriceEntryID) == nil {
			return fmt.Errorf("create line: %w: precio %s", domain.ErrInvalidReference, l.PriceEntryID)
		}
		st.lines = append(st.lines, *l)
		return nil
	})
}

func (r *salesRepo) GetOrder(_ context.Context, id string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := r.s.read(r.tx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return nil
		}
		for _, l := range st.lines {
			if l.OrderID == id {
				o.Lines = append(o.Lines, l)
			}
		}
		out = &o
		return nil
	})
	return out, err
}

func (r *salesRepo) ListLines(_ context.Context, orderID string) ([]entity.SaleLineView, error) {
	var out []entity.SaleLineView
	err := r.s.read(r.tx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return nil
		}
		for _, l := range st.lines {
			if l.OrderID != orderID {
				continue
			}
			unit := l.UnitPrice
			if e := st.priceByID(l.PriceEntryID); e != nil {
				unit = e.Price
			}
			out = append(out, entity.SaleLineView{
				LineID:            l.ID,
				LineNo:            l.LineNo,
				OrderID:           o.ID,
				OrderedAt:         o.OrderedAt,
				CustomerID:        o.CustomerID,
				CustomerName:      st.refName(entity.RefCustomer, o.CustomerID).Name,
				ProductID:         l.ProductID,
				ProductName:       st.products[l.ProductID].Name,
				PriceEntryID:      l.PriceEntryID,
				UnitPrice:         unit,
				Quantity:          l.Quantity,
				Subtotal:          l.Subtotal,
				PaymentMethodID:   l.PaymentMethodID,
				PaymentMethodName: st.refName(entity.RefPaymentMethod, l.PaymentMethodID).Name,
			})
		}
		return nil
	})
	return out, err
}
