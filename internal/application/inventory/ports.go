package inventory

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/application/dto"
)

// ReceiptGenerator genera el comprobante PDF de un formulario de circulación.
type ReceiptGenerator interface {
	GenerateCirculationReceipt(ctx context.Context, detail *dto.CirculationFormDetail) ([]byte, error)
}
