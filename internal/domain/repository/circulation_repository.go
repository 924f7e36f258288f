package repository

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// FormWithRecorder es un formulario con la identidad de quien lo registró
// (join con users para el listado).
type FormWithRecorder struct {
	entity.CirculationForm
	RecorderName  string
	RecorderEmail string
}

// LineDetail es una línea de circulación con los datos del ítem embebidos
// (join con items para el detalle del formulario).
type LineDetail struct {
	entity.CirculationItem
	ItemName            string
	ItemCode            string
	ItemUnit            string
	ItemBaseQuantity    int64
	ItemCurrentQuantity int64
}

// CirculationFormRepository es el puerto de persistencia de formularios.
type CirculationFormRepository interface {
	Create(ctx context.Context, form *entity.CirculationForm) error
	GetByID(ctx context.Context, id string) (*entity.CirculationForm, error)
	// Update persiste los campos editables (responsable, teléfono, notas,
	// modificador). Status y referencias de encadenamiento no cambian en edición.
	Update(ctx context.Context, form *entity.CirculationForm) error
	SetFullyReturned(ctx context.Context, id string, fullyReturned bool) error
	Delete(ctx context.Context, id string) error
	ListWithRecorder(ctx context.Context) ([]FormWithRecorder, error)
}

// CirculationItemRepository es el puerto de persistencia de líneas.
type CirculationItemRepository interface {
	CreateMany(ctx context.Context, lines []*entity.CirculationItem) error
	ListByForm(ctx context.Context, formID string) ([]entity.CirculationItem, error)
	ListDetailByForm(ctx context.Context, formID string) ([]LineDetail, error)
	// Update persiste QtyRecorded, Notes y QtyNotYetReturned de una línea.
	Update(ctx context.Context, line *entity.CirculationItem) error
	DeleteMany(ctx context.Context, ids []string) error
	DeleteByForm(ctx context.Context, formID string) error
	// AdjustNotReturned aplica incrementos atómicos a qty_not_yet_returned de
	// líneas de préstamo, como lote best-effort (misma semántica que el ledger).
	AdjustNotReturned(ctx context.Context, deltas []QuantityDelta) (BulkResult, error)
}
