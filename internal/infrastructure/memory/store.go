package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

type pair struct {
	productID  string
	locationID string
}

type refEntry struct {
	Name    string
	Address string
}

// state contiene todas las tablas; se copia completa para poder revertir una unidad de trabajo.
type state struct {
	products    map[string]entity.Product
	prices      []entity.PriceEntry
	inventory   map[string]entity.InventoryRecord
	byPair      map[pair]string
	movements   []entity.StockMovement
	orders      map[string]entity.SalesOrder
	lines       []entity.SalesOrderLine
	refs        map[entity.RefKind]map[string]refEntry
	actors      map[string]entity.Actor
	priceSeq    int64
	movementSeq int64
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		inventory: map[string]entity.InventoryRecord{},
		byPair:    map[pair]string{},
		orders:    map[string]entity.SalesOrder{},
		refs:      map[entity.RefKind]map[string]refEntry{},
		actors:    map[string]entity.Actor{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:    make(map[string]entity.Product, len(s.products)),
		prices:      append([]entity.PriceEntry(nil), s.prices...),
		inventory:   make(map[string]entity.InventoryRecord, len(s.inventory)),
		byPair:      make(map[pair]string, len(s.byPair)),
		movements:   append([]entity.StockMovement(nil), s.movements...),
		orders:      make(map[string]entity.SalesOrder, len(s.orders)),
		lines:       append([]entity.SalesOrderLine(nil), s.lines...),
		refs:        make(map[entity.RefKind]map[string]refEntry, len(s.refs)),
		actors:      make(map[string]entity.Actor, len(s.actors)),
		priceSeq:    s.priceSeq,
		movementSeq: s.movementSeq,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.byPair {
		c.byPair[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for kind, m := range s.refs {
		cm := make(map[string]refEntry, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c.refs[kind] = cm
	}
	for k, v := range s.actors {
		c.actors[k] = v
	}
	return c
}

// Store almacenamiento en memoria con unidades de trabajo serializadas.
// Run toma el lock de escritura, trabaja sobre el estado vivo y lo restaura desde una copia si fn falla.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// SetClock reemplaza el reloj usado para completar fechas vacías.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Run ejecuta fn como una unidad de trabajo atómica.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma su propio lock).
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(tx bool) repository.Repos {
	return repository.Repos{
		Products:  &productRepo{s: s, tx: tx},
		Prices:    &priceRepo{s: s, tx: tx},
		Inventory: &inventoryRepo{s: s, tx: tx},
		Movements: &movementRepo{s: s, tx: tx},
		Sales:     &salesRepo{s: s, tx: tx},
		Refs:      &refRepo{s: s, tx: tx},
	}
}

// Actors devuelve el repositorio de actores.
func (s *Store) Actors() repository.ActorRepository {
	return &actorRepo{s: s}
}

func (s *Store) read(tx bool, fn func(st *state) error) error {
	if !tx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

func (s *Store) write(tx bool, fn func(st *state) error) error {
	if !tx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// AddReference registra una fila de catálogo (categoría, estado, proveedor, cliente, método de pago).
func (s *Store) AddReference(kind entity.RefKind, id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addRef(kind, id, refEntry{Name: name})
}

// AddLocation registra una ubicación con su dirección.
func (s *Store) AddLocation(id, name, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addRef(entity.RefLocation, id, refEntry{Name: name, Address: address})
}

func (s *Store) addRef(kind entity.RefKind, id string, e refEntry) {
	m, ok := s.st.refs[kind]
	if !ok {
		m = map[string]refEntry{}
		s.st.refs[kind] = m
	}
	m[id] = e
}

// AddActor registra un usuario.
func (s *Store) AddActor(a entity.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.actors[a.ID] = a
}

func (st *state) refName(kind entity.RefKind, id string) refEntry {
	return st.refs[kind][id]
}
