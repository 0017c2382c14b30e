package inventario

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que un evento de producción (N débitos
// + 1 crédito) y un reverso sean todo-o-nada sobre PostgreSQL.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemStockRepository,
		movRepo repository.MovimientoRepository,
		invRepo repository.RegistroInventarioRepository,
	) error) error
}
