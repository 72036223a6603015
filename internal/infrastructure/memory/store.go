// Package memory implementa los puertos de persistencia en memoria de proceso.
// Reproduce la semántica del adaptador PostgreSQL: bloqueo por fila de producto
// hasta el fin de la transacción, índice único de código de barras, orden de
// inserción estable y lecturas de snapshot consistentes.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	order     []string          // ids en orden de inserción
	byBarcode map[string]string // código -> id
	movements []*entity.Movement
	seq       int64
	lastAt    time.Time

	rowLocks map[string]*sync.Mutex // id de producto existente -> mutex de fila
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		byBarcode: make(map[string]string),
		rowLocks:  make(map[string]*sync.Mutex),
	}
}

// rowLock devuelve el mutex de la fila id, o nil si el producto no existe.
// La clave se copia: id puede venir de un buffer que el llamador reutiliza.
func (s *Store) rowLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return nil
	}
	m, ok := s.rowLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[strings.Clone(id)] = m
	}
	return m
}

// op escritura diferida: check valida contra el estado actual y apply la aplica.
// Ambas corren con s.mu tomado en escritura.
type op struct {
	check func(s *Store) error
	apply func(s *Store)
}

// txState escrituras pendientes y filas bloqueadas de una transacción.
type txState struct {
	ops    []op
	locked map[string]*sync.Mutex
}

func newTxState() *txState {
	return &txState{locked: make(map[string]*sync.Mutex)}
}

// lock bloquea la fila id una sola vez por transacción.
func (tx *txState) lock(s *Store, id string) {
	if _, ok := tx.locked[id]; ok {
		return
	}
	m := s.rowLock(id)
	if m == nil {
		return
	}
	m.Lock()
	tx.locked[strings.Clone(id)] = m
}

func (tx *txState) release() {
	for id, m := range tx.locked {
		m.Unlock()
		delete(tx.locked, id)
	}
}

// exec aplica o, de inmediato si no hay transacción, o la encola hasta el commit.
func (s *Store) exec(tx *txState, o op) error {
	if tx != nil {
		tx.ops = append(tx.ops, o)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.check != nil {
		if err := o.check(s); err != nil {
			return err
		}
	}
	o.apply(s)
	return nil
}

// commit valida todas las escrituras pendientes y luego las aplica en bloque.
func (s *Store) commit(tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range tx.ops {
		if o.check == nil {
			continue
		}
		if err := o.check(s); err != nil {
			return err
		}
	}
	for _, o := range tx.ops {
		o.apply(s)
	}
	tx.ops = nil
	return nil
}

// snapshot copia profunda del estado, tomada bajo lectura.
func (s *Store) snapshot() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := NewStore()
	for id, p := range s.products {
		cp.products[id] = p.Clone()
	}
	cp.order = append([]string(nil), s.order...)
	for code, id := range s.byBarcode {
		cp.byBarcode[code] = id
	}
	cp.movements = make([]*entity.Movement, len(s.movements))
	for i, m := range s.movements {
		mc := *m
		cp.movements[i] = &mc
	}
	cp.seq = s.seq
	cp.lastAt = s.lastAt
	return cp
}
