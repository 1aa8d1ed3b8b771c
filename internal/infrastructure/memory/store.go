// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa en tests y con APP_STORAGE=memory; los datos se pierden al reiniciar.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

// Store estado compartido por todos los repos en memoria.
// txMu serializa escritores: una transacción lo retiene completa y cada escritura suelta
// lo toma solo mientras dura, así un rollback nunca pisa escrituras ajenas.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *state
}

// lockWrite toma los candados de escritura y devuelve la función que los libera.
// Dentro de una transacción txMu ya está tomado por TxRunner.
func (s *Store) lockWrite(inTx bool) func() {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

type state struct {
	seq               map[string]int64
	roles             map[int64]entity.Role
	users             map[int64]entity.User
	categories        map[int64]entity.Category
	products          map[int64]entity.Product
	productCategories map[int64]map[int64]struct{} // producto -> categorías
	orders            map[int64]entity.Order
	lines             map[int64]entity.OrderLine
}

// NewStore crea un almacén vacío con los roles base (1 Administrador, 2 Cliente).
func NewStore() *Store {
	s := &Store{data: &state{
		seq:               make(map[string]int64),
		roles:             make(map[int64]entity.Role),
		users:             make(map[int64]entity.User),
		categories:        make(map[int64]entity.Category),
		products:          make(map[int64]entity.Product),
		productCategories: make(map[int64]map[int64]struct{}),
		orders:            make(map[int64]entity.Order),
		lines:             make(map[int64]entity.OrderLine),
	}}
	now := time.Now()
	for _, name := range []string{entity.RoleAdmin, entity.RoleClient} {
		id := s.data.next("roles")
		s.data.roles[id] = entity.Role{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	}
	return s
}

func (st *state) next(table string) int64 {
	st.seq[table]++
	return st.seq[table]
}

// clone copia profunda usada para deshacer una transacción fallida.
func (st *state) clone() *state {
	out := &state{
		seq:               make(map[string]int64, len(st.seq)),
		roles:             make(map[int64]entity.Role, len(st.roles)),
		users:             make(map[int64]entity.User, len(st.users)),
		categories:        make(map[int64]entity.Category, len(st.categories)),
		products:          make(map[int64]entity.Product, len(st.products)),
		productCategories: make(map[int64]map[int64]struct{}, len(st.productCategories)),
		orders:            make(map[int64]entity.Order, len(st.orders)),
		lines:             make(map[int64]entity.OrderLine, len(st.lines)),
	}
	for k, v := range st.seq {
		out.seq[k] = v
	}
	for k, v := range st.roles {
		out.roles[k] = v
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.categories {
		out.categories[k] = v
	}
	for k, v := range st.products {
		out.products[k] = v
	}
	for k, set := range st.productCategories {
		cp := make(map[int64]struct{}, len(set))
		for c := range set {
			cp[c] = struct{}{}
		}
		out.productCategories[k] = cp
	}
	for k, v := range st.orders {
		out.orders[k] = v
	}
	for k, v := range st.lines {
		out.lines[k] = v
	}
	return out
}

// userWithRole copia del usuario con el nombre de rol resuelto.
func (st *state) userWithRole(u entity.User) *entity.User {
	if r, ok := st.roles[u.RoleID]; ok {
		u.RoleName = r.Name
	}
	return &u
}

// productWithCategories copia del producto con sus categorías ordenadas por nombre.
func (st *state) productWithCategories(p entity.Product) *entity.Product {
	p.Categories = nil
	for cid := range st.productCategories[p.ID] {
		if c, ok := st.categories[cid]; ok {
			c.Products = nil
			p.Categories = append(p.Categories, c)
		}
	}
	sortCategories(p.Categories)
	return &p
}
