package memory

import (
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/catalog"
)

// LoadCatalog registra las filas de referencia del catálogo. Toda persona vale como cliente;
// solo las de tipo SUPPLIER valen como proveedor, igual que en PostgreSQL.
func (s *Store) LoadCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range c.Categories {
		s.addRef(entity.RefCategory, e.ID, refEntry{Name: e.Name})
	}
	for _, e := range c.States {
		s.addRef(entity.RefState, e.ID, refEntry{Name: e.Name})
	}
	for _, l := range c.Locations {
		s.addRef(entity.RefLocation, l.ID, refEntry{Name: l.Name, Address: l.Address})
	}
	for _, p := range c.Persons {
		s.addRef(entity.RefCustomer, p.ID, refEntry{Name: p.Name})
		if p.Kind == catalog.KindSupplier {
			s.addRef(entity.RefSupplier, p.ID, refEntry{Name: p.Name})
		}
	}
	for _, e := range c.PaymentMethods {
		s.addRef(entity.RefPaymentMethod, e.ID, refEntry{Name: e.Name})
	}
	for _, e := range c.Users {
		s.st.actors[e.ID] = entity.Actor{ID: e.ID, Name: e.Name}
	}
}
