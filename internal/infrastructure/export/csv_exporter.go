// Package export serializa los consolidados de notas a formatos descargables
// (CSV y Excel).
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	appgrading "github.com/jhoicas/labstock-api/internal/application/grading"
	"github.com/jhoicas/labstock-api/internal/application/dto"
)

var _ appgrading.RecapExporter = (*CSVExporter)(nil)

// CSVExporter exporta consolidados como CSV (UTF-8, separado por comas).
type CSVExporter struct{}

// NewCSVExporter construye el exportador CSV.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// ContentType devuelve el MIME type del formato.
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// FileExt devuelve la extensión de archivo.
func (e *CSVExporter) FileExt() string { return "csv" }

// GroupRecap serializa el consolidado grupal.
func (e *CSVExporter) GroupRecap(rows []dto.GroupRecapRow) ([]byte, error) {
	records := [][]string{groupRecapHeader}
	for _, r := range rows {
		records = append(records, groupRecapRecord(r))
	}
	return writeCSV(records)
}

// IndividualRecap serializa el consolidado individual.
func (e *CSVExporter) IndividualRecap(rows []dto.IndividualRecapRow) ([]byte, error) {
	records := [][]string{individualRecapHeader}
	for _, r := range rows {
		records = append(records, individualRecapRecord(r))
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("escribir csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Columnas compartidas por ambos exportadores.
var (
	groupRecapHeader      = []string{"Grupo", "Clase", "Año", "Integrantes", "Evaluadores", "Nota final"}
	individualRecapHeader = []string{"Estudiante", "Grupo", "Clase", "Año", "Evaluadores", "Nota final"}
)

func groupRecapRecord(r dto.GroupRecapRow) []string {
	names := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		names = append(names, m.Name)
	}
	return []string{
		strconv.Itoa(r.Number),
		r.Class,
		strconv.Itoa(r.Year),
		strings.Join(names, "; "),
		strconv.Itoa(r.EvaluatorCount),
		r.FinalScore.StringFixed(2),
	}
}

func individualRecapRecord(r dto.IndividualRecapRow) []string {
	return []string{
		r.StudentID,
		r.GroupID,
		r.Class,
		strconv.Itoa(r.Year),
		strconv.Itoa(r.EvaluatorCount),
		r.FinalScore.StringFixed(2),
	}
}
