package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo OrderRepository en memoria.
type OrderRepo struct {
	s  *Store
	tx bool // creado por TxRunner, que ya tiene txMu
}

// NewOrderRepository construye el repositorio de pedidos sobre el store.
func NewOrderRepository(s *Store) *OrderRepo { return &OrderRepo{s: s} }

// Create inserta la cabecera del pedido y asigna su ID.
func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.users[o.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	o.ID = r.s.data.next("orders")
	stored := *o
	stored.User = nil
	stored.Lines = nil
	r.s.data.orders[o.ID] = stored
	return nil
}

// CreateLines todas o ninguna: valida antes de insertar.
func (r *OrderRepo) CreateLines(_ context.Context, lines []entity.OrderLine) error {
	defer r.s.lockWrite(r.tx)()
	for _, l := range lines {
		if _, ok := r.s.data.orders[l.OrderID]; !ok {
			return domain.NotFound("pedido no encontrado")
		}
		if _, ok := r.s.data.products[l.ProductID]; !ok {
			return domain.InvalidInput("uno o más productos no existen")
		}
		if l.Quantity < 1 || l.UnitPrice.IsNegative() {
			return domain.InvalidInput("línea de pedido inválida")
		}
	}
	for _, l := range lines {
		l.ID = r.s.data.next("order_lines")
		l.Product = nil
		r.s.data.lines[l.ID] = l
	}
	return nil
}

// Get carga un pedido con usuario, líneas y productos. ownerID restringe al dueño.
func (r *OrderRepo) Get(_ context.Context, id int64, ownerID *int64) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.data.orders[id]
	if !ok || (ownerID != nil && o.UserID != *ownerID) {
		return nil, nil
	}
	return r.hydrate(o), nil
}

// List filtra por dueño, ordena por más reciente y devuelve el total sin paginar.
func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []entity.Order
	for _, o := range r.s.data.orders {
		if f.OwnerID != nil && o.UserID != *f.OwnerID {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	start, end := page(len(matched), f.Limit, f.Offset)
	out := make([]*entity.Order, 0, end-start)
	for _, o := range matched[start:end] {
		out = append(out, r.hydrate(o))
	}
	return out, len(matched), nil
}

// Delete elimina el pedido y sus líneas.
func (r *OrderRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.orders[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.deleteOrder(id)
	return nil
}

// hydrate copia del pedido con usuario, líneas (por id) y producto de cada línea.
func (r *OrderRepo) hydrate(o entity.Order) *entity.Order {
	if u, ok := r.s.data.users[o.UserID]; ok {
		o.User = r.s.data.userWithRole(u)
	}
	o.Lines = nil
	for _, l := range r.s.data.lines {
		if l.OrderID != o.ID {
			continue
		}
		if p, ok := r.s.data.products[l.ProductID]; ok {
			l.Product = r.s.data.productWithCategories(p)
		}
		o.Lines = append(o.Lines, l)
	}
	sort.Slice(o.Lines, func(i, j int) bool { return o.Lines[i].ID < o.Lines[j].ID })
	return &o
}

// deleteOrder borra cabecera y líneas; el llamador tiene el lock de escritura.
func (st *state) deleteOrder(id int64) {
	for lid, l := range st.lines {
		if l.OrderID == id {
			delete(st.lines, lid)
		}
	}
	delete(st.orders, id)
}
