package memory

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo CategoryRepository en memoria.
type CategoryRepo struct {
	s  *Store
	tx bool // creado por TxRunner, que ya tiene txMu
}

// NewCategoryRepository construye el repositorio de categorías sobre el store.
func NewCategoryRepository(s *Store) *CategoryRepo { return &CategoryRepo{s: s} }

// Create inserta la categoría y asigna su ID. El nombre es único.
func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	defer r.s.lockWrite(r.tx)()
	if r.nameTaken(c.Name, 0) {
		return domain.Conflict("ya existe una categoría con ese nombre")
	}
	c.ID = r.s.data.next("categories")
	stored := *c
	stored.Products = nil
	r.s.data.categories[c.ID] = stored
	return nil
}

// GetByID obtiene una categoría con sus productos; nil si no existe.
func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetByName busca por nombre exacto ignorando excludeID; nil si no hay coincidencia.
func (r *CategoryRepo) GetByName(_ context.Context, name string, excludeID int64) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.data.categories {
		if c.Name == name && c.ID != excludeID {
			return &c, nil
		}
	}
	return nil, nil
}

// GetByIDs búsqueda en lote; los ids repetidos devuelven una sola categoría.
func (r *CategoryRepo) GetByIDs(_ context.Context, ids []int64) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[int64]struct{}, len(ids))
	var found []entity.Category
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if c, ok := r.s.data.categories[id]; ok {
			found = append(found, c)
		}
	}
	sortCategories(found)
	out := make([]*entity.Category, 0, len(found))
	for i := range found {
		out = append(out, &found[i])
	}
	return out, nil
}

// List lista categorías por nombre, opcionalmente con sus productos.
func (r *CategoryRepo) List(_ context.Context, withProducts bool) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]entity.Category, 0, len(r.s.data.categories))
	for _, c := range r.s.data.categories {
		if withProducts {
			c.Products = r.productsOf(c.ID)
		}
		all = append(all, c)
	}
	sortCategories(all)
	out := make([]*entity.Category, 0, len(all))
	for i := range all {
		out = append(out, &all[i])
	}
	return out, nil
}

// ListProducts productos asociados a la categoría.
func (r *CategoryRepo) ListProducts(_ context.Context, categoryID int64) ([]entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.productsOf(categoryID), nil
}

// CountProducts número de productos asociados a la categoría.
func (r *CategoryRepo) CountProducts(_ context.Context, categoryID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.productsOf(categoryID)), nil
}

// Update reemplaza nombre y descripción.
func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return domain.Conflict("ya existe una categoría con ese nombre")
	}
	stored := *c
	stored.Products = nil
	r.s.data.categories[c.ID] = stored
	return nil
}

// Delete elimina la categoría y sus asociaciones (cascada de la tabla puente).
func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, set := range r.s.data.productCategories {
		delete(set, id)
	}
	delete(r.s.data.categories, id)
	return nil
}

func (r *CategoryRepo) nameTaken(name string, excludeID int64) bool {
	for _, other := range r.s.data.categories {
		if other.Name == name && other.ID != excludeID {
			return true
		}
	}
	return false
}

// productsOf productos asociados, sin sus categorías, ordenados por nombre.
func (r *CategoryRepo) productsOf(categoryID int64) []entity.Product {
	var out []entity.Product
	for pid, set := range r.s.data.productCategories {
		if _, ok := set[categoryID]; !ok {
			continue
		}
		if p, ok := r.s.data.products[pid]; ok {
			p.Categories = nil
			out = append(out, p)
		}
	}
	sortProductsByName(out)
	return out
}

