package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/application/order"
	"github.com/jhoicas/elaia-api/pkg/metrics"
)

// OrderHandler pedidos del usuario autenticado (o de cualquiera, si es admin).
type OrderHandler struct {
	uc      *order.UseCase
	metrics *metrics.HTTPMetrics
}

// NewOrderHandler construye el handler. m puede ser nil.
func NewOrderHandler(uc *order.UseCase, m *metrics.HTTPMetrics) *OrderHandler {
	return &OrderHandler{uc: uc, metrics: m}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Crea el pedido a nombre del usuario del token. quantity por defecto 1, unitPrice por defecto 0.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Líneas del pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), identity, in)
	if err != nil {
		return handleError(c, err)
	}
	h.metrics.IncOrdersCreated()
	requestLogger(c).Info().Int64("order_id", out.ID).Int64("user_id", identity.UserID).Msg("pedido creado")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Description  Un cliente solo ve los suyos; pedir los de otro usuario responde 403. Un admin puede filtrar por usuario.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        targetUserId  query  int  false  "Usuario dueño"
// @Param        limit         query  int  false  "Límite"
// @Param        offset        query  int  false  "Offset"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	target, err := queryInt64(c, "targetUserId")
	if err != nil {
		return handleError(c, err)
	}
	if target == nil {
		if target, err = queryInt64(c, "userId"); err != nil {
			return handleError(c, err)
		}
	}
	return h.list(c, target)
}

// ListByUser godoc
// @Summary      Listar pedidos de un usuario
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        userId  path   int  true   "Usuario dueño"
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders/user/{userId} [get]
func (h *OrderHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return handleError(c, err)
	}
	return h.list(c, &userID)
}

func (h *OrderHandler) list(c *fiber.Ctx, target *int64) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return unauthenticated(c)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return handleError(c, err)
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), identity, dto.OrderQuery{TargetUserID: target, Limit: limit, Offset: offset})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Description  404 si no existe o no pertenece al usuario (salvo admin).
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return unauthenticated(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), identity, id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return unauthenticated(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	pdf, err := h.uc.Receipt(c.UserContext(), identity, id)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pedido-%d.pdf"`, id))
	return c.Send(pdf)
}

// Delete godoc
// @Summary      Eliminar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return unauthenticated(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), identity, id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "pedido eliminado"})
}
