package repository

import (
	"context"
	"time"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// Filtros para el listado de ítems activos.
type ItemFilter string

const (
	FilterAll         ItemFilter = "all"
	FilterBorrowed    ItemFilter = "borrowed"     // current_quantity < base_quantity
	FilterNotBorrowed ItemFilter = "not_borrowed" // current_quantity > 0
)

// QuantityDelta es un incremento pendiente sobre un contador (ledger de ítems
// o qty_not_yet_returned de líneas de préstamo).
type QuantityDelta struct {
	ID    string
	Delta int64
}

// BulkResult reporta el resultado de un lote best-effort sin atomicidad
// cruzada: cada operación triunfa o falla por separado y el caller debe
// exponer los conteos en vez de asumir todo-o-nada.
type BulkResult struct {
	Applied   int
	Failed    int
	FailedIDs []string
}

// ItemRepository es el puerto de persistencia de ítems, incluyendo el ledger
// de cantidad disponible. Todo ajuste de CurrentQuantity se expresa como
// incremento atómico en el almacén, nunca como read-modify-write.
type ItemRepository interface {
	CreateMany(ctx context.Context, items []*entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// Update persiste campos editables y desplaza CurrentQuantity por
	// baseDelta (diferencia de BaseQuantity nueva-vieja) en el mismo UPDATE.
	Update(ctx context.Context, item *entity.Item, baseDelta int64) error
	SoftDeleteMany(ctx context.Context, ids []string, actorID string, at time.Time) (int64, error)

	// ListActiveFlat devuelve ítems raíz activos según filtro más sus hijos de
	// primer nivel, como nodos planos + aristas (ensamblar con inventory.Assemble).
	ListActiveFlat(ctx context.Context, filter ItemFilter) ([]entity.Item, []entity.HierarchyEdge, error)
	// ListFlatByIDs igual que ListActiveFlat pero restringido a raíces con esos ids.
	ListFlatByIDs(ctx context.Context, ids []string) ([]entity.Item, []entity.HierarchyEdge, error)
	// ListNameSuggestions devuelve un ítem por nombre distinto (autocompletar formularios).
	ListNameSuggestions(ctx context.Context) ([]entity.Item, error)

	// AdjustQuantity aplica un delta atómico a current_quantity y estampa
	// modificador y timestamp. No valida contra base_quantity.
	AdjustQuantity(ctx context.Context, itemID string, delta int64, actorID string) error
	// AdjustQuantities aplica un lote de deltas sin orden ni atomicidad
	// conjunta; fallos parciales no bloquean al resto.
	AdjustQuantities(ctx context.Context, deltas []QuantityDelta, actorID string) (BulkResult, error)
}
