package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/labstock-api/internal/domain/inventory"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// CirculationUseCase es el motor de formularios de circulación: registra
// préstamos y devoluciones, edita por reconciliación y elimina con reverso
// compensatorio.
//
// Orden de efectos en toda mutación: primero formulario y líneas (durables),
// después los deltas del ledger. No hay transacción que cruce esos pasos: la
// consistencia viene de que cada paso es re-aplicable (los deltas se derivan
// de diferencias observadas) y de que los lotes reportan fallos parciales en
// vez de asumir todo-o-nada.
type CirculationUseCase struct {
	formRepo repository.CirculationFormRepository
	lineRepo repository.CirculationItemRepository
	itemRepo repository.ItemRepository
}

// NewCirculationUseCase construye el motor de circulación.
func NewCirculationUseCase(
	formRepo repository.CirculationFormRepository,
	lineRepo repository.CirculationItemRepository,
	itemRepo repository.ItemRepository,
) *CirculationUseCase {
	return &CirculationUseCase{formRepo: formRepo, lineRepo: lineRepo, itemRepo: itemRepo}
}

// Submit registra una transacción nueva (préstamo o devolución).
//
// Préstamo: cada línea arranca con qty_not_yet_returned = qty_recorded y el
// ledger recibe -qty_recorded por ítem. Devolución: el formulario referencia
// al préstamo que cierra, el ledger recibe +qty_recorded, se decrementan los
// contadores de las líneas de préstamo referenciadas y se recalcula
// fully_returned del préstamo.
func (uc *CirculationUseCase) Submit(ctx context.Context, userID string, req dto.SubmitCirculationRequest) (*dto.SubmitCirculationResponse, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}
	recordedAt, err := parseDate(req.ResponsibleParty.Date)
	if err != nil {
		return nil, err
	}

	var previousFormID *string
	if req.ResponsibleParty.Status == entity.CirculationReturn {
		prev, err := uc.formRepo.GetByID(ctx, req.ResponsibleParty.PreviousFormID)
		if err != nil {
			return nil, err
		}
		if prev == nil {
			return nil, domain.ErrNotFound
		}
		if !prev.IsBorrowing() {
			return nil, domain.ErrInvalidInput
		}
		previousFormID = &prev.ID
	}

	form := &entity.CirculationForm{
		ID:             req.ResponsibleParty.ID,
		Name:           req.ResponsibleParty.Name,
		Phone:          req.ResponsibleParty.Phone,
		Notes:          req.ResponsibleParty.Notes,
		Status:         req.ResponsibleParty.Status,
		PreviousFormID: previousFormID,
		RecordedBy:     userID,
		RecordedAt:     recordedAt,
	}
	if form.ID == "" {
		form.ID = uuid.New().String()
	}
	if form.IsBorrowing() {
		notReturned := false
		form.FullyReturned = &notReturned
	}
	if err := uc.formRepo.Create(ctx, form); err != nil {
		return nil, err
	}

	lines := make([]*entity.CirculationItem, 0, len(req.Items))
	for _, in := range req.Items {
		lines = append(lines, newLine(form, toLineInput(in)))
	}
	if err := uc.lineRepo.CreateMany(ctx, lines); err != nil {
		return nil, err
	}

	// Ledger al final: un crash antes de este punto nunca deja deltas colgando
	// sin formulario que los respalde.
	deltas := make([]repository.QuantityDelta, 0, len(lines))
	for _, line := range lines {
		deltas = append(deltas, repository.QuantityDelta{
			ID:    line.ItemID,
			Delta: domaininv.ApplySign(form.Status, line.QtyRecorded),
		})
	}
	ledger, err := uc.itemRepo.AdjustQuantities(ctx, deltas, userID)
	if err != nil {
		return nil, err
	}
	logPartial("submit", form.ID, ledger)

	if form.IsReturn() {
		var prevDeltas []repository.QuantityDelta
		for _, line := range lines {
			if line.PreviousItemID != nil {
				prevDeltas = append(prevDeltas, repository.QuantityDelta{ID: *line.PreviousItemID, Delta: -line.QtyRecorded})
			}
		}
		if err := uc.applyReturnSide(ctx, *form.PreviousFormID, prevDeltas); err != nil {
			return nil, err
		}
	}

	return &dto.SubmitCirculationResponse{
		FormID:        form.ID,
		LinesRecorded: len(lines),
		Ledger:        toBulkResponse(ledger),
	}, nil
}

// Update edita un formulario existente por reconciliación completa: compara
// las líneas deseadas contra las persistidas y aplica inserciones,
// actualizaciones y eliminaciones con sus correcciones de ledger. Los deltas
// son solo diferencias (new-old con el signo del estado), así que reenviar la
// misma edición tras un fallo parcial es seguro.
func (uc *CirculationUseCase) Update(ctx context.Context, userID, formID string, req dto.SubmitCirculationRequest) (*dto.ReconcileResponse, error) {
	form, err := uc.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, domain.ErrNotFound
	}
	if err := validateSubmit(req); err != nil {
		return nil, err
	}
	// El estado declarado no puede cambiar en edición: la convención de signos
	// depende de él.
	if req.ResponsibleParty.Status != form.Status {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	form.Name = req.ResponsibleParty.Name
	form.Phone = req.ResponsibleParty.Phone
	form.Notes = req.ResponsibleParty.Notes
	form.UpdatedBy = &userID
	form.UpdatedAt = &now
	if err := uc.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}

	current, err := uc.lineRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	desired := make([]domaininv.LineInput, 0, len(req.Items))
	for _, in := range req.Items {
		desired = append(desired, toLineInput(in))
	}
	diff := domaininv.DiffLines(current, desired)

	// prevDeltas acumula las correcciones sobre qty_not_yet_returned de las
	// líneas de préstamo referenciadas (solo formularios RETURN).
	var prevDeltas []repository.QuantityDelta

	for _, in := range diff.ToInsert {
		line := newLine(form, in)
		if err := uc.lineRepo.CreateMany(ctx, []*entity.CirculationItem{line}); err != nil {
			return nil, err
		}
		if form.IsReturn() && in.PreviousItemID != nil {
			prevDeltas = append(prevDeltas, repository.QuantityDelta{ID: *in.PreviousItemID, Delta: -in.QtyRecorded})
		}
	}
	for _, u := range diff.ToUpdate {
		line := u.Current
		line.Notes = u.Desired.Notes
		line.QtyRecorded = u.Desired.QtyRecorded
		if line.QtyNotYetReturned != nil {
			// Lo pendiente de devolver se desplaza junto con lo registrado.
			shifted := *line.QtyNotYetReturned + u.QtyChange()
			line.QtyNotYetReturned = &shifted
		}
		if err := uc.lineRepo.Update(ctx, &line); err != nil {
			return nil, err
		}
		if form.IsReturn() && line.PreviousItemID != nil {
			prevDeltas = append(prevDeltas, repository.QuantityDelta{ID: *line.PreviousItemID, Delta: -u.QtyChange()})
		}
	}
	if len(diff.ToDelete) > 0 {
		ids := make([]string, 0, len(diff.ToDelete))
		for _, line := range diff.ToDelete {
			ids = append(ids, line.ID)
			if form.IsReturn() && line.PreviousItemID != nil {
				prevDeltas = append(prevDeltas, repository.QuantityDelta{ID: *line.PreviousItemID, Delta: line.QtyRecorded})
			}
		}
		if err := uc.lineRepo.DeleteMany(ctx, ids); err != nil {
			return nil, err
		}
	}

	ledger := repository.BulkResult{}
	if deltas := diff.LedgerDeltas(form.Status); len(deltas) > 0 {
		batch := make([]repository.QuantityDelta, 0, len(deltas))
		for itemID, delta := range deltas {
			batch = append(batch, repository.QuantityDelta{ID: itemID, Delta: delta})
		}
		if ledger, err = uc.itemRepo.AdjustQuantities(ctx, batch, userID); err != nil {
			return nil, err
		}
		logPartial("update", form.ID, ledger)
	}

	if form.IsReturn() {
		if err := uc.applyReturnSide(ctx, *form.PreviousFormID, prevDeltas); err != nil {
			return nil, err
		}
	}

	return &dto.ReconcileResponse{
		FormID:   form.ID,
		Inserted: len(diff.ToInsert),
		Updated:  len(diff.ToUpdate),
		Deleted:  len(diff.ToDelete),
		Ledger:   toBulkResponse(ledger),
	}, nil
}

// Delete revierte el efecto de vida del formulario y lo elimina junto con sus
// líneas. Préstamo: repone al ledger lo consumido. Devolución: retira del
// ledger lo repuesto, restaura qty_not_yet_returned en las líneas de préstamo
// referenciadas y vuelve a marcar el préstamo como no devuelto del todo.
func (uc *CirculationUseCase) Delete(ctx context.Context, userID, formID string) (*dto.DeleteFormResponse, error) {
	form, err := uc.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.lineRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	deltas := make([]repository.QuantityDelta, 0, len(lines))
	var prevDeltas []repository.QuantityDelta
	for _, line := range lines {
		deltas = append(deltas, repository.QuantityDelta{
			ID:    line.ItemID,
			Delta: -domaininv.ApplySign(form.Status, line.QtyRecorded),
		})
		if form.IsReturn() && line.PreviousItemID != nil {
			prevDeltas = append(prevDeltas, repository.QuantityDelta{ID: *line.PreviousItemID, Delta: line.QtyRecorded})
		}
	}

	ledger, err := uc.itemRepo.AdjustQuantities(ctx, deltas, userID)
	if err != nil {
		return nil, err
	}
	logPartial("delete", form.ID, ledger)

	if form.IsReturn() {
		if len(prevDeltas) > 0 {
			res, err := uc.lineRepo.AdjustNotReturned(ctx, prevDeltas)
			if err != nil {
				return nil, err
			}
			logPartial("delete/restore", form.ID, res)
		}
		if err := uc.formRepo.SetFullyReturned(ctx, *form.PreviousFormID, false); err != nil {
			return nil, err
		}
	}

	if err := uc.lineRepo.DeleteByForm(ctx, formID); err != nil {
		return nil, err
	}
	if err := uc.formRepo.Delete(ctx, formID); err != nil {
		return nil, err
	}

	return &dto.DeleteFormResponse{
		FormID:       formID,
		LinesDeleted: len(lines),
		Ledger:       toBulkResponse(ledger),
	}, nil
}

// GetDetail devuelve el formulario con sus líneas y datos de ítem. Para
// préstamos agrega el tope editable por línea (current + qty_recorded) y el
// pool de ítems no prestados disponible para agregar en una edición.
func (uc *CirculationUseCase) GetDetail(ctx context.Context, formID string) (*dto.CirculationFormDetail, error) {
	form, err := uc.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.lineRepo.ListDetailByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	out := &dto.CirculationFormDetail{
		ID:             form.ID,
		Name:           form.Name,
		Phone:          form.Phone,
		Notes:          form.Notes,
		Status:         form.Status,
		FullyReturned:  form.FullyReturned,
		PreviousFormID: form.PreviousFormID,
		RecordedAt:     form.RecordedAt,
		Lines:          make([]dto.CirculationLineDetail, 0, len(details)),
	}
	for _, d := range details {
		line := dto.CirculationLineDetail{
			LineID:            d.ID,
			ItemID:            d.ItemID,
			ItemName:          d.ItemName,
			ItemCode:          d.ItemCode,
			Unit:              d.ItemUnit,
			Notes:             d.Notes,
			QtyRecorded:       d.QtyRecorded,
			QtyNotYetReturned: d.QtyNotYetReturned,
			PreviousLineID:    d.PreviousItemID,
			CurrentQuantity:   d.ItemCurrentQuantity,
			BaseQuantity:      d.ItemBaseQuantity,
		}
		if form.IsBorrowing() {
			max := d.ItemCurrentQuantity + d.QtyRecorded
			line.MaxRecordable = &max
		}
		out.Lines = append(out.Lines, line)
	}

	if form.IsBorrowing() {
		nodes, edges, err := uc.itemRepo.ListActiveFlat(ctx, repository.FilterNotBorrowed)
		if err != nil {
			return nil, err
		}
		out.AvailableItems = toTreeResponses(domaininv.Assemble(nodes, edges))
	}
	return out, nil
}

// List devuelve todos los formularios con la identidad de quien los registró,
// más recientes primero.
func (uc *CirculationUseCase) List(ctx context.Context) ([]dto.CirculationFormSummary, error) {
	forms, err := uc.formRepo.ListWithRecorder(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CirculationFormSummary, 0, len(forms))
	for _, f := range forms {
		out = append(out, dto.CirculationFormSummary{
			ID:             f.ID,
			Name:           f.Name,
			Phone:          f.Phone,
			Status:         f.Status,
			FullyReturned:  f.FullyReturned,
			PreviousFormID: f.PreviousFormID,
			RecordedAt:     f.RecordedAt,
			RecorderName:   f.RecorderName,
			RecorderEmail:  f.RecorderEmail,
		})
	}
	return out, nil
}

// applyReturnSide aplica los decrementos sobre las líneas de préstamo
// referenciadas y recalcula fully_returned del formulario de préstamo:
// true si y solo si toda línea quedó con qty_not_yet_returned == 0.
func (uc *CirculationUseCase) applyReturnSide(ctx context.Context, borrowFormID string, prevDeltas []repository.QuantityDelta) error {
	if len(prevDeltas) > 0 {
		res, err := uc.lineRepo.AdjustNotReturned(ctx, prevDeltas)
		if err != nil {
			return err
		}
		logPartial("return-side", borrowFormID, res)
	}

	borrowLines, err := uc.lineRepo.ListByForm(ctx, borrowFormID)
	if err != nil {
		return err
	}
	fullyReturned := len(borrowLines) > 0
	for _, line := range borrowLines {
		if line.Outstanding() != 0 {
			fullyReturned = false
			break
		}
	}
	return uc.formRepo.SetFullyReturned(ctx, borrowFormID, fullyReturned)
}

func newLine(form *entity.CirculationForm, in domaininv.LineInput) *entity.CirculationItem {
	line := &entity.CirculationItem{
		ID:          uuid.New().String(),
		FormID:      form.ID,
		ItemID:      in.ItemID,
		Status:      form.Status,
		Notes:       in.Notes,
		QtyRecorded: in.QtyRecorded,
	}
	if form.IsBorrowing() {
		notReturned := in.QtyRecorded
		line.QtyNotYetReturned = &notReturned
	} else {
		line.PreviousItemID = in.PreviousItemID
	}
	return line
}

func toLineInput(in dto.CirculationLinePayload) domaininv.LineInput {
	out := domaininv.LineInput{ItemID: in.ID, QtyRecorded: in.QtyRecorded, Notes: in.Notes}
	if in.PreviousLineID != "" {
		prev := in.PreviousLineID
		out.PreviousItemID = &prev
	}
	return out
}

func validateSubmit(req dto.SubmitCirculationRequest) error {
	pj := req.ResponsibleParty
	if pj.Name == "" {
		return domain.ErrInvalidInput
	}
	switch pj.Status {
	case entity.CirculationBorrowing:
	case entity.CirculationReturn:
		if pj.PreviousFormID == "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if len(req.Items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, in := range req.Items {
		if in.ID == "" || in.QtyRecorded <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}

func toBulkResponse(r repository.BulkResult) dto.BulkResultResponse {
	return dto.BulkResultResponse{Applied: r.Applied, Failed: r.Failed, FailedIDs: r.FailedIDs}
}

// logPartial deja registro de lotes con fallos parciales; no es fatal, la
// corrección queda en manos de reenviar la misma edición (idempotente).
func logPartial(op, formID string, r repository.BulkResult) {
	if r.Failed == 0 {
		return
	}
	log.Warn().
		Str("op", op).
		Str("form_id", formID).
		Int("applied", r.Applied).
		Int("failed", r.Failed).
		Strs("failed_ids", r.FailedIDs).
		Msg("lote con fallos parciales; reintentar la misma edición para reconciliar")
}
