package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

type movementRepo struct {
	s  *Store
	tx bool
}

var _ repository.StockMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	return r.s.write(r.tx, func(st *state) error {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.OccurredAt.IsZero() {
			m.OccurredAt = r.s.now()
		}
		st.movementSeq++
		m.Seq = st.movementSeq
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string) ([]entity.MovementView, error) {
	var rows []entity.StockMovement
	var out []entity.MovementView
	err := r.s.read(r.tx, func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				rows = append(rows, m)
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].OccurredAt.Equal(rows[j].OccurredAt) {
				return rows[i].Seq > rows[j].Seq
			}
			return rows[i].OccurredAt.After(rows[j].OccurredAt)
		})
		out = make([]entity.MovementView, 0, len(rows))
		for _, m := range rows {
			loc := st.refName(entity.RefLocation, m.LocationID)
			out = append(out, entity.MovementView{
				ID:              m.ID,
				OccurredAt:      m.OccurredAt,
				Type:            m.Type,
				Quantity:        m.Quantity,
				CorrelationKey:  m.CorrelationKey,
				Comment:         m.Comment,
				LocationID:      m.LocationID,
				LocationName:    loc.Name,
				LocationAddress: loc.Address,
				ActorID:         m.ActorID,
				ActorName:       st.actors[m.ActorID].Name,
			})
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) Balances(_ context.Context) ([]entity.LedgerBalance, error) {
	var out []entity.LedgerBalance
	err := r.s.read(r.tx, func(st *state) error {
		acc := map[pair]*entity.LedgerBalance{}
		get := func(k pair) *entity.LedgerBalance {
			b, ok := acc[k]
			if !ok {
				b = &entity.LedgerBalance{ProductID: k.productID, LocationID: k.locationID}
				acc[k] = b
			}
			return b
		}
		for _, rec := range st.inventory {
			get(pair{rec.ProductID, rec.LocationID}).Available = rec.Available
		}
		for _, m := range st.movements {
			b := get(pair{m.ProductID, m.LocationID})
			b.LedgerSum += m.Type.Delta(m.Quantity)
			b.Movements++
		}
		for _, b := range acc {
			out = append(out, *b)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out, err
}
