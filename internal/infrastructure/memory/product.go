package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo ProductRepository en memoria.
type ProductRepo struct {
	s  *Store
	tx bool // creado por TxRunner, que ya tiene txMu
}

// NewProductRepository construye el repositorio de productos sobre el store.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

// Create inserta el producto y asigna su ID. Las categorías van aparte (SetCategories).
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.tx)()
	p.ID = r.s.data.next("products")
	stored := *p
	stored.Categories = nil
	r.s.data.products[p.ID] = stored
	return nil
}

// GetByID obtiene un producto con sus categorías; nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return r.s.data.productWithCategories(p), nil
}

// GetByIDs búsqueda en lote; los ids repetidos devuelven una sola fila.
func (r *ProductRepo) GetByIDs(_ context.Context, ids []int64) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[int64]struct{}, len(ids))
	var out []*entity.Product
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := r.s.data.products[id]; ok {
			p.Categories = nil
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// List mismo criterio que la consulta SQL: subcadena sin distinguir mayúsculas, más recientes primero.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(f.Search)
	category := strings.ToLower(f.Category)

	var matched []*entity.Product
	for _, p := range r.s.data.products {
		full := r.s.data.productWithCategories(p)
		if search != "" &&
			!strings.Contains(strings.ToLower(full.Name), search) &&
			!strings.Contains(strings.ToLower(full.Description), search) {
			continue
		}
		if category != "" && !hasCategoryLike(full.Categories, category) {
			continue
		}
		matched = append(matched, full)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	start, end := page(len(matched), f.Limit, f.Offset)
	return matched[start:end], len(matched), nil
}

// Update actualiza los campos propios del producto.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *p
	stored.Categories = nil
	r.s.data.products[p.ID] = stored
	return nil
}

// SetCategories reemplaza todas las asociaciones del producto.
func (r *ProductRepo) SetCategories(_ context.Context, productID int64, categoryIDs []int64) error {
	defer r.s.lockWrite(r.tx)()
	set := make(map[int64]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, ok := r.s.data.categories[id]; !ok {
			return domain.ErrCategoryNotFound
		}
		set[id] = struct{}{}
	}
	r.s.data.productCategories[productID] = set
	return nil
}

// CountOrderLines número de líneas de pedido que referencian el producto.
func (r *ProductRepo) CountOrderLines(_ context.Context, productID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, l := range r.s.data.lines {
		if l.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// Delete falla si alguna línea de pedido referencia el producto (RESTRICT).
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, l := range r.s.data.lines {
		if l.ProductID == id {
			return domain.Conflict("el producto está referenciado por pedidos")
		}
	}
	delete(r.s.data.productCategories, id)
	delete(r.s.data.products, id)
	return nil
}

func hasCategoryLike(categories []entity.Category, needle string) bool {
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	return false
}
