package grading

import "github.com/jhoicas/labstock-api/internal/application/dto"

// RecapExporter serializa los consolidados de notas a un formato descargable.
// Lo implementan los exportadores CSV y Excel.
type RecapExporter interface {
	GroupRecap(rows []dto.GroupRecapRow) ([]byte, error)
	IndividualRecap(rows []dto.IndividualRecapRow) ([]byte, error)
	ContentType() string
	FileExt() string
}
