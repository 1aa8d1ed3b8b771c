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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `c.id, c.name, c.created_at, c.updated_at`

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `INSERT INTO categories (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.q.QueryRow(ctx, query, c.Name, c.CreatedAt, c.UpdatedAt).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe una categoría con ese nombre")
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	row := r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.id = $1`, id)
	return scanCategoryRow(row, "get category")
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string, excludeID int64) (*entity.Category, error) {
	row := r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.name = $1 AND c.id <> $2 LIMIT 1`, name, excludeID)
	return scanCategoryRow(row, "get category by name")
}

func (r *CategoryRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.id = ANY($1) ORDER BY c.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("get categories by ids: %w", err)
	}
	return collectCategories(rows)
}

// List ordena por nombre ascendente.
func (r *CategoryRepo) List(ctx context.Context, withProducts bool) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories c ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	list, err := collectCategories(rows)
	if err != nil || !withProducts || len(list) == 0 {
		return list, err
	}

	byID := make(map[int64]*entity.Category, len(list))
	ids := make([]int64, 0, len(list))
	for _, c := range list {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}
	prows, err := r.q.Query(ctx, `
		SELECT pc.category_id, `+productColumns+`
		FROM product_categories pc JOIN products p ON p.id = pc.product_id
		WHERE pc.category_id = ANY($1)
		ORDER BY p.name, p.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var categoryID int64
		var p entity.Product
		if err := prows.Scan(append([]any{&categoryID}, productScanTargets(&p)...)...); err != nil {
			return nil, fmt.Errorf("scan category product: %w", err)
		}
		if c, ok := byID[categoryID]; ok {
			c.Products = append(c.Products, p)
		}
	}
	return list, prows.Err()
}

func (r *CategoryRepo) ListProducts(ctx context.Context, categoryID int64) ([]entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+`
		FROM product_categories pc JOIN products p ON p.id = pc.product_id
		WHERE pc.category_id = $1
		ORDER BY p.name, p.id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}
	defer rows.Close()
	var out []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(productScanTargets(&p)...); err != nil {
			return nil, fmt.Errorf("scan category product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) CountProducts(ctx context.Context, categoryID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product_categories WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count category products: %w", err)
	}
	return n, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.q.Exec(ctx, `UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`, c.ID, c.Name, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe una categoría con ese nombre")
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectCategories(rows pgx.Rows) ([]*entity.Category, error) {
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func scanCategoryRow(row pgx.Row, op string) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
