package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	appgrading "github.com/jhoicas/labstock-api/internal/application/grading"
	"github.com/jhoicas/labstock-api/internal/application/dto"
)

var _ appgrading.RecapExporter = (*ExcelExporter)(nil)

// ExcelExporter exporta consolidados como libro .xlsx con encabezado en
// negrita y columnas auto-ajustadas.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador Excel.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// ContentType devuelve el MIME type del formato.
func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileExt devuelve la extensión de archivo.
func (e *ExcelExporter) FileExt() string { return "xlsx" }

// GroupRecap serializa el consolidado grupal.
func (e *ExcelExporter) GroupRecap(rows []dto.GroupRecapRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, groupRecapRecord(r))
	}
	return writeSheet("Notas grupales", groupRecapHeader, records)
}

// IndividualRecap serializa el consolidado individual.
func (e *ExcelExporter) IndividualRecap(rows []dto.IndividualRecapRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, individualRecapRecord(r))
	}
	return writeSheet("Notas individuales", individualRecapHeader, records)
}

func writeSheet(sheet string, header []string, records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("crear estilo: %w", err)
	}

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("escribir encabezado: %w", err)
		}
		_ = f.SetCellStyle(sheet, cell, cell, boldStyle)
	}
	for i, record := range records {
		for col, value := range record {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("escribir fila: %w", err)
			}
		}
	}

	// Ancho fijo razonable; excelize no auto-ajusta sin medir fuentes.
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetColWidth(sheet, "A", lastCol, 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
