package inventory

import (
	"context"

	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Movements      repository.MovementRepository
	Dockets        repository.DocketRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Orders         repository.OrderRepository
	Waybills       repository.WaybillRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza el todo-o-nada del motor de
// inventario: ninguna operación fallida deja mutación parcial visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// DocketLineForPDF es una línea del docket ya resuelta a SKU y nombre de
// producto, lista para imprimir.
type DocketLineForPDF struct {
	SKU         string
	ProductName string
	Quantity    int64
	Status      string
}

// DocketPDFGenerator genera la representación imprimible de un docket.
type DocketPDFGenerator interface {
	GenerateDocketPDF(ctx context.Context, docket *entity.Docket, lines []DocketLineForPDF) ([]byte, error)
}

// VariantLocker entrega la sección exclusiva por variante que serializa las
// mutaciones de una misma partición del libro (guard y ciclos de vida).
// Acquire toma los locks de todas las variantes pedidas o falla con
// domain.ErrLockTimeout al agotar el plazo acotado; release libera todos.
// La implementación debe tomar los locks en orden estable para no interbloquear.
type VariantLocker interface {
	Acquire(ctx context.Context, variantIDs ...string) (release func(), err error)
}
