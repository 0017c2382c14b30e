package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventario"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// MovimientoHandler consultas del libro de movimientos y reverso de asientos
// sueltos.
type MovimientoHandler struct {
	movimientos *inventario.MovimientosService
	reversos    *inventario.ReversoService
}

// NewMovimientoHandler construye el handler.
func NewMovimientoHandler(movimientos *inventario.MovimientosService, reversos *inventario.ReversoService) *MovimientoHandler {
	return &MovimientoHandler{movimientos: movimientos, reversos: reversos}
}

// Listar godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  false  "filtrar por item"
// @Param        item_tipo  query  string  false  "ingrediente | material | receta | producto"
// @Param        direccion  query  string  false  "entrada | salida"
// @Param        subtipo    query  string  false  "manual | produccion | consumo | ajuste | merma | reverso"
// @Param        operador   query  string  false  "filtrar por operador"
// @Param        desde      query  string  false  "RFC3339"
// @Param        hasta      query  string  false  "RFC3339"
// @Param        limit      query  int     false  "por defecto 20"
// @Param        offset     query  int     false  "por defecto 0"
// @Success      200  {object}  dto.MovimientoListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *MovimientoHandler) Listar(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.MovimientoFilter{
		ItemID:    c.Query("item_id"),
		ItemTipo:  c.Query("item_tipo"),
		Direccion: c.Query("direccion"),
		Subtipo:   c.Query("subtipo"),
		Operador:  c.Query("operador"),
	}
	for _, rango := range []struct {
		param string
		dest  **time.Time
	}{
		{"desde", &filter.Desde},
		{"hasta", &filter.Hasta},
	} {
		if raw := c.Query(rango.param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: rango.param + " debe ser RFC3339"})
			}
			*rango.dest = &t
		}
	}

	movs, total, err := h.movimientos.Listar(filter, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovimientoListResponse{
		Items: toMovimientoResponses(movs),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovimientoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [get]
func (h *MovimientoHandler) GetByID(c *fiber.Ctx) error {
	mov, err := h.movimientos.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if mov == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(toMovimientoResponse(mov))
}

// Revertir godoc
// @Summary      Revertir un movimiento suelto
// @Description  Solo entradas sin ID de correlación; los asientos de un evento
//
//	de producción se revierten por el evento completo.
//
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovimientoResultResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [delete]
func (h *MovimientoHandler) Revertir(c *fiber.Ctx) error {
	res, err := h.reversos.RevertirMovimiento(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovimientoResultResponse{
		Item:       toItemResponse(res.Item),
		Movimiento: toMovimientoResponse(res.Movimiento),
	})
}
