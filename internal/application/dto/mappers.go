package dto

import "github.com/jhoicas/elaia-api/internal/domain/entity"

// ToUserResponse convierte un User en su salida pública.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		RoleID:    u.RoleID,
		Role:      u.RoleName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserSummary resumen de usuario para respuestas anidadas.
func ToUserSummary(u *entity.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.RoleName,
		RoleID:    u.RoleID,
	}
}

func ToRoleResponse(r *entity.Role) RoleResponse {
	out := RoleResponse{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	for i := range r.Users {
		out.Users = append(out.Users, ToUserResponse(&r.Users[i]))
	}
	return out
}

func ToCategoryResponse(c *entity.Category) CategoryResponse {
	out := CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	for i := range c.Products {
		out.Products = append(out.Products, ToProductResponse(&c.Products[i]))
	}
	return out
}

func ToProductResponse(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, c := range p.Categories {
		out.Categories = append(out.Categories, CategorySummary{ID: c.ID, Name: c.Name})
	}
	return out
}

// ToOrderResponse incluye el total derivado de las líneas.
func ToOrderResponse(o *entity.Order) OrderResponse {
	out := OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		User:      ToUserSummary(o.User),
		Lines:     make([]OrderLineResponse, 0, len(o.Lines)),
		Total:     o.Total().InexactFloat64(),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, l := range o.Lines {
		line := OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.InexactFloat64(),
			Subtotal:  l.Subtotal().Round(2).InexactFloat64(),
		}
		if l.Product != nil {
			p := ToProductResponse(l.Product)
			line.Product = &p
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}
