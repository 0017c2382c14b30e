package receta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/inventario"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/jhoicas/produccion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memRecetaRepo struct {
	recetas map[string]entity.Receta
}

func (r *memRecetaRepo) Create(receta *entity.Receta) error {
	r.recetas[receta.ID] = *receta
	return nil
}

func (r *memRecetaRepo) GetByID(id string) (*entity.Receta, error) {
	receta, ok := r.recetas[id]
	if !ok {
		return nil, nil
	}
	copia := receta
	return &copia, nil
}

func (r *memRecetaRepo) Update(receta *entity.Receta) error {
	r.recetas[receta.ID] = *receta
	return nil
}

func (r *memRecetaRepo) List(limit, offset int) ([]*entity.Receta, error) {
	var out []*entity.Receta
	for _, receta := range r.recetas {
		copia := receta
		out = append(out, &copia)
	}
	return out, nil
}

type memItemRepo struct {
	items map[string]entity.ItemStock
}

func (r *memItemRepo) Create(item *entity.ItemStock) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.ItemStock, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copia := item
	return &copia, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.ItemStock, error) { return r.GetByID(id) }

func (r *memItemRepo) Update(item *entity.ItemStock) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) ListByTipo(string, int, int) ([]*entity.ItemStock, error) { return nil, nil }

// movRepoCorrelaciones solo responde ListCorrelacionesActivasPorItem; el resto
// del puerto no lo usa este caso de uso.
type movRepoCorrelaciones struct {
	repository.MovimientoRepository
	correlaciones map[string][]string
}

func (r *movRepoCorrelaciones) ListCorrelacionesActivasPorItem(itemID string) ([]string, error) {
	return r.correlaciones[itemID], nil
}

type reversorEspia struct {
	revertidos []string
}

func (r *reversorEspia) RevertirEvento(_ context.Context, correlacionID, _ string) (*inventario.ReversoEventoResult, error) {
	r.revertidos = append(r.revertidos, correlacionID)
	return &inventario.ReversoEventoResult{}, nil
}

type entorno struct {
	recetas  *memRecetaRepo
	items    *memItemRepo
	movs     *movRepoCorrelaciones
	reversos *reversorEspia
	uc       *UseCase
}

func nuevoEntorno() *entorno {
	recetas := &memRecetaRepo{recetas: make(map[string]entity.Receta)}
	items := &memItemRepo{items: make(map[string]entity.ItemStock)}
	movs := &movRepoCorrelaciones{correlaciones: make(map[string][]string)}
	reversos := &reversorEspia{}
	return &entorno{
		recetas:  recetas,
		items:    items,
		movs:     movs,
		reversos: reversos,
		uc:       NewUseCase(recetas, items, movs, reversos, logger.Nop()),
	}
}

func crearReceta(t *testing.T, env *entorno) *entity.Receta {
	t.Helper()
	receta, err := env.uc.Crear(CrearInput{
		Nombre: "Pan de masa madre",
		Ingredientes: []entity.IngredienteReceta{
			{IngredienteID: "harina", Nombre: "Harina", Cantidad: decimal.NewFromInt(8), Unidad: "kg"},
		},
		Rendimiento: decimal.NewFromInt(5),
		UnidadRinde: "unidad",
	})
	require.NoError(t, err)
	return receta
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_QuedaEnBorradorConItemGemelo(t *testing.T) {
	env := nuevoEntorno()
	receta := crearReceta(t, env)

	assert.Equal(t, entity.EstadoBorrador, receta.Estado)
	assert.Equal(t, entity.FasePreparado, receta.FaseActual)
	assert.Empty(t, receta.Historial, "el historial arranca al iniciar, no al crear")

	item, err := env.items.GetByID(receta.ID)
	require.NoError(t, err)
	require.NotNil(t, item, "la receta debe tener su item de stock de salida")
	assert.Equal(t, entity.TipoReceta, item.Tipo)
	assert.True(t, item.Adquirido.IsZero())
	assert.True(t, item.Consumido.IsZero())
}

func TestCrear_ValidaEntrada(t *testing.T) {
	env := nuevoEntorno()

	_, err := env.uc.Crear(CrearInput{Nombre: "", Rendimiento: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.uc.Crear(CrearInput{Nombre: "Pan", Rendimiento: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rendimiento cero no tiene sentido")

	_, err = env.uc.Crear(CrearInput{
		Nombre:      "Pan",
		Rendimiento: decimal.NewFromInt(5),
		Ingredientes: []entity.IngredienteReceta{
			{IngredienteID: "harina", Cantidad: decimal.Zero},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestIniciar_AbreLaFasePreparado(t *testing.T) {
	env := nuevoEntorno()
	receta := crearReceta(t, env)

	receta, err := env.uc.Iniciar(receta.ID, "arranque del lote 12")
	require.NoError(t, err)

	assert.Equal(t, entity.EstadoEnProceso, receta.Estado)
	require.Len(t, receta.Historial, 1)
	assert.Equal(t, entity.FasePreparado, receta.Historial[0].Fase)
	assert.Nil(t, receta.Historial[0].Fin, "la fase en curso queda abierta")
	assert.Equal(t, "arranque del lote 12", receta.Historial[0].Notas)

	// Iniciar dos veces es transición inválida.
	_, err = env.uc.Iniciar(receta.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAvanzarFase_RecorreElEjeYCompleta(t *testing.T) {
	env := nuevoEntorno()
	receta := crearReceta(t, env)
	_, err := env.uc.Iniciar(receta.ID, "")
	require.NoError(t, err)

	paso, err := env.uc.AvanzarFase(receta.ID, "a fermentar")
	require.NoError(t, err)
	assert.Equal(t, entity.FaseIntermedio, paso.FaseActual)
	assert.Equal(t, entity.EstadoEnProceso, paso.Estado)
	require.Len(t, paso.Historial, 2)
	assert.NotNil(t, paso.Historial[0].Fin, "la fase anterior queda cerrada")

	paso, err = env.uc.AvanzarFase(receta.ID, "horneado listo")
	require.NoError(t, err)
	assert.Equal(t, entity.FaseTerminado, paso.FaseActual)
	assert.Equal(t, entity.EstadoCompletado, paso.Estado, "llegar a terminado completa la receta")

	// Desde completado no se avanza más.
	_, err = env.uc.AvanzarFase(receta.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPausarYReanudar(t *testing.T) {
	env := nuevoEntorno()
	receta := crearReceta(t, env)

	// Pausar en borrador no es válido.
	_, err := env.uc.Pausar(receta.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.uc.Iniciar(receta.ID, "")
	require.NoError(t, err)

	pausada, err := env.uc.Pausar(receta.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPausado, pausada.Estado)

	// En pausa no se avanza de fase.
	_, err = env.uc.AvanzarFase(receta.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	reanudada, err := env.uc.Reanudar(receta.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoEnProceso, reanudada.Estado)
	assert.Equal(t, pausada.FaseActual, reanudada.FaseActual, "la pausa no pierde la fase")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reiniciar / Desactivar
// ──────────────────────────────────────────────────────────────────────────────

func TestReiniciar_RevierteProduccionesYVuelveABorrador(t *testing.T) {
	env := nuevoEntorno()
	receta := crearReceta(t, env)
	_, err := env.uc.Iniciar(receta.ID, "")
	require.NoError(t, err)
	env.movs.correlaciones[receta.ID] = []string{"evento-1", "evento-2"}

	reiniciada, err := env.uc.Reiniciar(context.Background(), receta.ID, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, entity.EstadoBorrador, reiniciada.Estado)
	assert.Equal(t, entity.FasePreparado, reiniciada.FaseActual)
	assert.Equal(t, []string{"evento-1", "evento-2"}, env.reversos.revertidos,
		"cada producción activa de la receta debe revertirse")

	ultimo := reiniciada.Historial[len(reiniciada.Historial)-1]
	assert.Equal(t, "reinicio", ultimo.Notas)
}

func TestReiniciar_DesdeBorradorEsInvalido(t *testing.T) {
	env := nuevoEntorno()
	receta := crearReceta(t, env)

	_, err := env.uc.Reiniciar(context.Background(), receta.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, env.reversos.revertidos)
}

func TestDesactivar_RevierteYBajaRecetaConSuItem(t *testing.T) {
	env := nuevoEntorno()
	receta := crearReceta(t, env)
	_, err := env.uc.Iniciar(receta.ID, "")
	require.NoError(t, err)
	env.movs.correlaciones[receta.ID] = []string{"evento-1"}

	require.NoError(t, env.uc.Desactivar(context.Background(), receta.ID, "admin-1"))

	assert.Equal(t, []string{"evento-1"}, env.reversos.revertidos)

	guardada, _ := env.recetas.GetByID(receta.ID)
	assert.False(t, guardada.Activo)
	item, _ := env.items.GetByID(receta.ID)
	assert.False(t, item.Activo, "el item de stock gemelo también se desactiva")

	// Una receta desactivada deja de ser visible.
	_, err = env.uc.GetByID(receta.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID_Inexistente(t *testing.T) {
	env := nuevoEntorno()
	_, err := env.uc.GetByID("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
