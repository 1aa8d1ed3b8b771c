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

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderSelect = `
	SELECT o.id, o.user_id, o.created_at, o.updated_at, ` + userColumns + `
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN roles r ON r.id = u.role_id`

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera del pedido y asigna su ID.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (user_id, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.q.QueryRow(ctx, query, o.UserID, o.CreatedAt, o.UpdatedAt).Scan(&o.ID); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateLines inserta las líneas con COPY. Los IDs de línea no se devuelven.
func (r *OrderRepo) CreateLines(ctx context.Context, lines []entity.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "product_id", "quantity", "unit_price"},
		pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
			l := lines[i]
			return []any{l.OrderID, l.ProductID, l.Quantity, l.UnitPrice}, nil
		}),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.InvalidInput("uno o más productos no existen")
		}
		if isInvalidValue(err) {
			return domain.InvalidInput("cantidad o precio unitario fuera de rango")
		}
		return fmt.Errorf("copy order lines: %w", err)
	}
	return nil
}

// Get carga un pedido con usuario, líneas y productos. ownerID restringe al dueño.
func (r *OrderRepo) Get(ctx context.Context, id int64, ownerID *int64) (*entity.Order, error) {
	query := orderSelect + ` WHERE o.id = $1 AND ($2::bigint IS NULL OR o.user_id = $2)`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List más recientes primero; total es el conteo sin paginar con el mismo filtro.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var total int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders o WHERE ($1::bigint IS NULL OR o.user_id = $1)`, f.OwnerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := orderSelect + `
		WHERE ($1::bigint IS NULL OR o.user_id = $1)
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, f.OwnerID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if err := r.loadLines(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina la cabecera; order_lines tiene ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadLines carga las líneas (con producto) de todos los pedidos en una sola consulta.
func (r *OrderRepo) loadLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.order_id, l.product_id, l.quantity, l.unit_price, `+productColumns+`
		FROM order_lines l JOIN products p ON p.id = l.product_id
		WHERE l.order_id = ANY($1)
		ORDER BY l.id`, ids)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		var p entity.Product
		targets := append([]any{&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice}, productScanTargets(&p)...)
		if err := rows.Scan(targets...); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		l.Product = &p
		if o, ok := byID[l.OrderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var u entity.User
	err := row.Scan(&o.ID, &o.UserID, &o.CreatedAt, &o.UpdatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.User = &u
	return &o, nil
}
