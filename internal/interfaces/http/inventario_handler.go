package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventario"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// InventarioHandler maneja items de stock y los movimientos manuales
// (entradas, salidas y mermas).
type InventarioHandler struct {
	items *inventario.ItemsService
	stock *inventario.StockService
}

// NewInventarioHandler construye el handler.
func NewInventarioHandler(items *inventario.ItemsService, stock *inventario.StockService) *InventarioHandler {
	return &InventarioHandler{items: items, stock: stock}
}

// CrearItem godoc
// @Summary      Crear ingrediente o material
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearItemRequest  true  "tipo, nombre, unidad"
// @Success      201   {object}  dto.ItemStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *InventarioHandler) CrearItem(c *fiber.Ctx) error {
	var in dto.CrearItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.items.Crear(in.Tipo, in.Nombre, in.Unidad)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
}

// ListarItems godoc
// @Summary      Listar items de stock por tipo
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        tipo    query  string  true   "ingrediente | material | receta | producto"
// @Param        limit   query  int     false  "por defecto 20"
// @Param        offset  query  int     false  "por defecto 0"
// @Success      200  {array}   dto.ItemStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *InventarioHandler) ListarItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.items.ListarByTipo(c.Query("tipo"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ItemStockResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Obtener item de stock
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del item"
// @Success      200  {object}  dto.ItemStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *InventarioHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.items.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
	}
	return c.JSON(toItemResponse(item))
}

// DesactivarItem godoc
// @Summary      Baja lógica de un item de stock
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del item"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *InventarioHandler) DesactivarItem(c *fiber.Ctx) error {
	if err := h.items.Desactivar(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "item desactivado"})
}

// RegistrarEntrada godoc
// @Summary      Entrada manual de stock (compra, ajuste positivo)
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntradaStockRequest  true  "item_id, cantidad"
// @Success      201   {object}  dto.MovimientoResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventario/entradas [post]
func (h *InventarioHandler) RegistrarEntrada(c *fiber.Ctx) error {
	var in dto.EntradaStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	res, err := h.stock.Acreditar(c.Context(), inventario.CreditoInput{
		ItemID:   in.ItemID,
		Cantidad: in.Cantidad,
		Subtipo:  in.Subtipo,
		Motivo:   in.Motivo,
		Operador: GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovimientoResultResponse{
		Item:       toItemResponse(res.Item),
		Movimiento: toMovimientoResponse(res.Movimiento),
	})
}

// RegistrarSalida godoc
// @Summary      Salida manual de stock (ajuste negativo, consumo suelto)
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalidaStockRequest  true  "item_id, cantidad"
// @Success      201   {object}  dto.MovimientoResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/salidas [post]
func (h *InventarioHandler) RegistrarSalida(c *fiber.Ctx) error {
	var in dto.SalidaStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	res, err := h.stock.Consumir(c.Context(), inventario.ConsumoInput{
		ItemID:   in.ItemID,
		Cantidad: in.Cantidad,
		Subtipo:  in.Subtipo,
		Motivo:   in.Motivo,
		Operador: GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovimientoResultResponse{
		Item:       toItemResponse(res.Item),
		Movimiento: toMovimientoResponse(res.Movimiento),
	})
}

// RegistrarMerma godoc
// @Summary      Registrar desperdicio
// @Description  Un débito con subtipo merma; exige motivo para trazabilidad.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MermaRequest  true  "item_id, cantidad, motivo"
// @Success      201   {object}  dto.MovimientoResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/mermas [post]
func (h *InventarioHandler) RegistrarMerma(c *fiber.Ctx) error {
	var in dto.MermaRequest
	if !parseBody(c, &in) {
		return nil
	}
	res, err := h.stock.Consumir(c.Context(), inventario.ConsumoInput{
		ItemID:   in.ItemID,
		Cantidad: in.Cantidad,
		Subtipo:  entity.SubtipoMerma,
		Motivo:   in.Motivo,
		Operador: GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovimientoResultResponse{
		Item:       toItemResponse(res.Item),
		Movimiento: toMovimientoResponse(res.Movimiento),
	})
}
