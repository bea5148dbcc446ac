package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

type priceRepo struct {
	s  *Store
	tx bool
}

var _ repository.PriceHistoryRepository = (*priceRepo)(nil)

func (r *priceRepo) Append(_ context.Context, e *entity.PriceEntry) error {
	return r.s.write(r.tx, func(st *state) error {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.RegisteredAt.IsZero() {
			e.RegisteredAt = r.s.now()
		}
		st.priceSeq++
		e.Seq = st.priceSeq
		st.prices = append(st.prices, *e)
		return nil
	})
}

// currentPrice entrada vigente en asOf: mayor RegisteredAt <= asOf, desempate por Seq.
func (st *state) currentPrice(productID string, asOf time.Time) *entity.PriceEntry {
	var best *entity.PriceEntry
	for i := range st.prices {
		e := st.prices[i]
		if e.ProductID != productID || e.RegisteredAt.After(asOf) {
			continue
		}
		if best == nil || e.Newer(*best) {
			best = &e
		}
	}
	return best
}

func (st *state) priceByID(id string) *entity.PriceEntry {
	for i := range st.prices {
		if st.prices[i].ID == id {
			e := st.prices[i]
			return &e
		}
	}
	return nil
}

func (r *priceRepo) Current(_ context.Context, productID string, asOf time.Time) (*entity.PriceEntry, error) {
	var out *entity.PriceEntry
	err := r.s.read(r.tx, func(st *state) error {
		out = st.currentPrice(productID, asOf)
		return nil
	})
	return out, err
}

func (r *priceRepo) CurrentForProducts(_ context.Context, productIDs []string, asOf time.Time) (map[string]*entity.PriceEntry, error) {
	out := make(map[string]*entity.PriceEntry, len(productIDs))
	err := r.s.read(r.tx, func(st *state) error {
		for _, id := range productIDs {
			if e := st.currentPrice(id, asOf); e != nil {
				out[id] = e
			}
		}
		return nil
	})
	return out, err
}

func (r *priceRepo) ListByProduct(_ context.Context, productID string) ([]*entity.PriceEntry, error) {
	var out []*entity.PriceEntry
	err := r.s.read(r.tx, func(st *state) error {
		for i := range st.prices {
			if st.prices[i].ProductID == productID {
				e := st.prices[i]
				out = append(out, &e)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Newer(*out[j]) })
	return out, err
}

func (r *priceRepo) DeleteByProduct(_ context.Context, productID string) error {
	return r.s.write(r.tx, func(st *state) error {
		kept := st.prices[:0]
		for _, e := range st.prices {
			if e.ProductID != productID {
				kept = append(kept, e)
			}
		}
		st.prices = kept
		return nil
	})
}
