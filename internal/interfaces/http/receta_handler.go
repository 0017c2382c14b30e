package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/receta"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// RecetaHandler maneja el ciclo de vida de recetas.
type RecetaHandler struct {
	uc       *receta.UseCase
	itemRepo repository.ItemStockRepository
}

// NewRecetaHandler construye el handler. itemRepo se usa solo para leer el
// stock de salida de cada receta al responder.
func NewRecetaHandler(uc *receta.UseCase, itemRepo repository.ItemStockRepository) *RecetaHandler {
	return &RecetaHandler{uc: uc, itemRepo: itemRepo}
}

// Crear godoc
// @Summary      Crear receta
// @Description  Queda en estado borrador; crea también su item de stock de salida.
// @Tags         recetas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearRecetaRequest  true  "nombre, ingredientes, rendimiento"
// @Success      201   {object}  dto.RecetaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/recetas [post]
func (h *RecetaHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearRecetaRequest
	if !parseBody(c, &in) {
		return nil
	}
	ingredientes := make([]entity.IngredienteReceta, 0, len(in.Ingredientes))
	for _, ing := range in.Ingredientes {
		ingredientes = append(ingredientes, entity.IngredienteReceta{
			IngredienteID: ing.IngredienteID,
			Nombre:        ing.Nombre,
			Cantidad:      ing.Cantidad,
			Unidad:        ing.Unidad,
		})
	}
	r, err := h.uc.Crear(receta.CrearInput{
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		Ingredientes: ingredientes,
		Rendimiento:  in.Rendimiento,
		UnidadRinde:  in.UnidadRinde,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.respuesta(r))
}

// Listar godoc
// @Summary      Listar recetas
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "por defecto 20"
// @Param        offset  query  int  false  "por defecto 0"
// @Success      200  {array}  dto.RecetaResponse
// @Router       /api/recetas [get]
func (h *RecetaHandler) Listar(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	recetas, err := h.uc.Listar(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RecetaResponse, 0, len(recetas))
	for _, r := range recetas {
		out = append(out, h.respuesta(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener receta
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecetaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recetas/{id} [get]
func (h *RecetaHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.respuesta(r))
}

// Iniciar godoc
// @Summary      Iniciar receta (borrador → en_proceso)
// @Tags         recetas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true   "ID de la receta"
// @Param        body  body  dto.FaseRequest  false  "notas"
// @Success      200   {object}  dto.RecetaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recetas/{id}/iniciar [post]
func (h *RecetaHandler) Iniciar(c *fiber.Ctx) error {
	var in dto.FaseRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	r, err := h.uc.Iniciar(c.Params("id"), in.Notas)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.respuesta(r))
}

// AvanzarFase godoc
// @Summary      Avanzar fase (preparado → intermedio → terminado)
// @Tags         recetas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true   "ID de la receta"
// @Param        body  body  dto.FaseRequest  false  "notas"
// @Success      200   {object}  dto.RecetaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recetas/{id}/avanzar-fase [post]
func (h *RecetaHandler) AvanzarFase(c *fiber.Ctx) error {
	var in dto.FaseRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	r, err := h.uc.AvanzarFase(c.Params("id"), in.Notas)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.respuesta(r))
}

// Pausar godoc
// @Summary      Pausar receta (en_proceso → pausado)
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecetaResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recetas/{id}/pausar [post]
func (h *RecetaHandler) Pausar(c *fiber.Ctx) error {
	r, err := h.uc.Pausar(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.respuesta(r))
}

// Reanudar godoc
// @Summary      Reanudar receta (pausado → en_proceso)
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecetaResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recetas/{id}/reanudar [post]
func (h *RecetaHandler) Reanudar(c *fiber.Ctx) error {
	r, err := h.uc.Reanudar(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.respuesta(r))
}

// Reiniciar godoc
// @Summary      Reiniciar receta a borrador
// @Description  Revierte las producciones activas de la receta (restaura insumos)
//
//	y vuelve el estado a borrador/preparado.
//
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecetaResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recetas/{id}/reiniciar [post]
func (h *RecetaHandler) Reiniciar(c *fiber.Ctx) error {
	r, err := h.uc.Reiniciar(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.respuesta(r))
}

// Desactivar godoc
// @Summary      Baja lógica de una receta
// @Description  Revierte sus producciones activas y desactiva la receta y su
//
//	item de stock.
//
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recetas/{id} [delete]
func (h *RecetaHandler) Desactivar(c *fiber.Ctx) error {
	if err := h.uc.Desactivar(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "receta desactivada"})
}

func (h *RecetaHandler) respuesta(r *entity.Receta) dto.RecetaResponse {
	stock, _ := h.itemRepo.GetByID(r.ID)
	return toRecetaResponse(r, stock)
}
