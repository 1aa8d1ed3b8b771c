package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.name, p.description, p.price, p.image_url, p.created_at, p.updated_at`

// productFilterWhere $1 = texto de búsqueda, $2 = nombre de categoría (vacío = sin filtro).
const productFilterWhere = `
	WHERE ($1 = '' OR p.name ILIKE $3 OR p.description ILIKE $3)
	  AND ($2 = '' OR EXISTS (
		SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = p.id AND c.name ILIKE $4))`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y asigna su ID. Las categorías van aparte (SetCategories).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (name, description, price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.ImageURL, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		if isInvalidValue(err) {
			return domain.InvalidInput("precio fuera de rango")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con sus categorías.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id).Scan(productScanTargets(&p)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadCategories(ctx, []*entity.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs búsqueda en lote; los ids repetidos devuelven una sola fila.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1) ORDER BY p.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	return collectProducts(rows)
}

// List aplica los filtros, ordena por más reciente y devuelve además el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	args := []any{f.Search, f.Category, likePattern(f.Search), likePattern(f.Category)}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+productFilterWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products p` + productFilterWhere + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadCategories(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update actualiza los campos propios del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, image_url = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.UpdatedAt)
	if err != nil {
		if isInvalidValue(err) {
			return domain.InvalidInput("precio fuera de rango")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetCategories reemplaza todas las asociaciones del producto.
func (r *ProductRepo) SetCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product categories: %w", err)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_categories (product_id, category_id)
		SELECT $1, UNNEST($2::bigint[])
		ON CONFLICT DO NOTHING`, productID, categoryIDs)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("insert product categories: %w", err)
	}
	return nil
}

func (r *ProductRepo) CountOrderLines(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM order_lines WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count product order lines: %w", err)
	}
	return n, nil
}

// Delete elimina el producto; sus asociaciones con categorías caen por cascada.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("el producto está referenciado por pedidos")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadCategories llena Categories de cada producto con una sola consulta.
func (r *ProductRepo) loadCategories(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Product, len(products))
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT pc.product_id, `+categoryColumns+`
		FROM product_categories pc JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY c.name`, ids)
	if err != nil {
		return fmt.Errorf("load product categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID int64
		var c entity.Category
		if err := rows.Scan(&productID, &c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan product category: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	return rows.Err()
}

func productScanTargets(p *entity.Product) []any {
	return []any{&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt}
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(productScanTargets(&p)...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
