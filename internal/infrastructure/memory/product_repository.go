package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/textnorm"
)

type productRepo struct {
	s  *Store
	tx bool
}

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.write(r.tx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("create product: %w", domain.ErrConflict)
		}
		now := r.s.now()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = p.CreatedAt
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.write(r.tx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p.CreatedAt = cur.CreatedAt
		p.UpdatedAt = r.s.now()
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	return r.s.write(r.tx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *productRepo) Search(_ context.Context, query string, asOf time.Time, limit int) ([]entity.ProductPriceView, error) {
	needle := textnorm.Fold(query)
	var out []entity.ProductPriceView
	err := r.s.read(r.tx, func(st *state) error {
		for _, p := range st.products {
			if needle != "" && !strings.Contains(textnorm.Fold(p.Name), needle) {
				continue
			}
			v := entity.ProductPriceView{
				Product:      p,
				CategoryName: st.refName(entity.RefCategory, p.CategoryID).Name,
			}
			if e := st.currentPrice(p.ID, asOf); e != nil {
				price, at := e.Price, e.RegisteredAt
				v.PriceEntryID, v.Price, v.PriceUpdatedAt = e.ID, &price, &at
			}
			out = append(out, v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *productRepo) CountDependents(_ context.Context, id string) (entity.ProductDependents, error) {
	var d entity.ProductDependents
	err := r.s.read(r.tx, func(st *state) error {
		for _, rec := range st.inventory {
			if rec.ProductID == id {
				d.Inventory++
			}
		}
		for _, m := range st.movements {
			if m.ProductID == id {
				d.Movements++
			}
		}
		for _, l := range st.lines {
			if l.ProductID == id {
				d.SaleLines++
			}
		}
		return nil
	})
	return d, err
}
