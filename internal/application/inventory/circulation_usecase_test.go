package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

func newCirculationUC(s *fakeStore) *CirculationUseCase {
	return NewCirculationUseCase(&fakeFormRepo{s: s}, &fakeLineRepo{s: s}, &fakeItemRepo{s: s})
}

func borrowReq(lines ...dto.CirculationLinePayload) dto.SubmitCirculationRequest {
	return dto.SubmitCirculationRequest{
		ResponsibleParty: dto.ResponsiblePartyPayload{
			Name:   "Juan Pérez",
			Phone:  "3001234567",
			Status: entity.CirculationBorrowing,
		},
		Items: lines,
	}
}

func returnReq(prevFormID string, lines ...dto.CirculationLinePayload) dto.SubmitCirculationRequest {
	return dto.SubmitCirculationRequest{
		ResponsibleParty: dto.ResponsiblePartyPayload{
			Name:           "Juan Pérez",
			Status:         entity.CirculationReturn,
			PreviousFormID: prevFormID,
		},
		Items: lines,
	}
}

func TestSubmit_PrestamoDescuentaDelLedger(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	resp, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LinesRecorded)
	assert.Equal(t, 1, resp.Ledger.Applied)
	assert.Equal(t, 0, resp.Ledger.Failed)

	assert.Equal(t, int64(6), s.items["item-a"].CurrentQuantity, "el préstamo debe consumir cantidad disponible")

	form := s.forms[resp.FormID]
	require.NotNil(t, form)
	require.NotNil(t, form.FullyReturned)
	assert.False(t, *form.FullyReturned)

	lines := s.linesOf(resp.FormID)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].QtyNotYetReturned)
	assert.Equal(t, int64(4), *lines[0].QtyNotYetReturned, "lo pendiente arranca igual a lo registrado")
}

func TestSubmit_DevolucionCompletaCierraElPrestamo(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)
	borrowLine := s.linesOf(borrow.FormID)[0]

	_, err = uc.Submit(context.Background(), "user-1", returnReq(borrow.FormID,
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4, PreviousLineID: borrowLine.ID},
	))
	require.NoError(t, err)

	assert.Equal(t, int64(10), s.items["item-a"].CurrentQuantity, "la devolución debe reponer el ledger")
	assert.Equal(t, int64(0), borrowLine.Outstanding())
	require.NotNil(t, s.forms[borrow.FormID].FullyReturned)
	assert.True(t, *s.forms[borrow.FormID].FullyReturned)
}

func TestSubmit_DevolucionParcialNoCierraElPrestamo(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)
	borrowLine := s.linesOf(borrow.FormID)[0]

	_, err = uc.Submit(context.Background(), "user-1", returnReq(borrow.FormID,
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 2, PreviousLineID: borrowLine.ID},
	))
	require.NoError(t, err)

	assert.Equal(t, int64(8), s.items["item-a"].CurrentQuantity)
	assert.Equal(t, int64(2), borrowLine.Outstanding())
	assert.False(t, *s.forms[borrow.FormID].FullyReturned)
}

func TestUpdate_ReducirCantidadAplicaSoloLaDiferencia(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)

	resp, err := uc.Update(context.Background(), "user-1", borrow.FormID, borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 2},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Updated)
	assert.Zero(t, resp.Inserted)
	assert.Zero(t, resp.Deleted)

	// De 4 a 2: el ledger recibe +2 (old-new en préstamo), nunca se reaplica
	// el valor completo.
	assert.Equal(t, int64(8), s.items["item-a"].CurrentQuantity)

	line := s.linesOf(borrow.FormID)[0]
	assert.Equal(t, int64(2), line.QtyRecorded)
	assert.Equal(t, int64(2), line.Outstanding(), "lo pendiente se desplaza junto con lo registrado")
}

func TestUpdate_InsertaYEliminaLineasPorReconciliacion(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	s.seedItem("item-b", 5, 5)
	s.seedItem("item-c", 8, 8)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 2},
		dto.CirculationLinePayload{ID: "item-b", QtyRecorded: 3},
	))
	require.NoError(t, err)

	resp, err := uc.Update(context.Background(), "user-1", borrow.FormID, borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 2},
		dto.CirculationLinePayload{ID: "item-c", QtyRecorded: 5},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, 0, resp.Updated)
	assert.Equal(t, 1, resp.Deleted)

	assert.Equal(t, int64(8), s.items["item-a"].CurrentQuantity, "línea sin cambios no toca el ledger")
	assert.Equal(t, int64(5), s.items["item-b"].CurrentQuantity, "línea eliminada repone su cantidad")
	assert.Equal(t, int64(3), s.items["item-c"].CurrentQuantity, "línea insertada consume su cantidad")
	assert.Len(t, s.linesOf(borrow.FormID), 2)
}

func TestUpdate_EstadoNoPuedeCambiar(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), "user-1", borrow.FormID, returnReq(borrow.FormID,
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_PrestamoReponeElLedger(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)

	resp, err := uc.Delete(context.Background(), "user-1", borrow.FormID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LinesDeleted)

	assert.Equal(t, int64(10), s.items["item-a"].CurrentQuantity)
	assert.Empty(t, s.linesOf(borrow.FormID))
	assert.Nil(t, s.forms[borrow.FormID])
}

func TestDelete_DevolucionRestauraElPrestamo(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)
	borrowLine := s.linesOf(borrow.FormID)[0]

	ret, err := uc.Submit(context.Background(), "user-1", returnReq(borrow.FormID,
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4, PreviousLineID: borrowLine.ID},
	))
	require.NoError(t, err)
	require.True(t, *s.forms[borrow.FormID].FullyReturned)

	_, err = uc.Delete(context.Background(), "user-1", ret.FormID)
	require.NoError(t, err)

	assert.Equal(t, int64(6), s.items["item-a"].CurrentQuantity, "se retira del ledger lo que la devolución había repuesto")
	assert.Equal(t, int64(4), borrowLine.Outstanding(), "lo pendiente vuelve a su valor previo")
	assert.False(t, *s.forms[borrow.FormID].FullyReturned)
	assert.Nil(t, s.forms[ret.FormID])
}

func TestSubmit_Validaciones(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	t.Run("devolución sin formulario previo", func(t *testing.T) {
		_, err := uc.Submit(context.Background(), "user-1", returnReq("",
			dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 1},
		))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("formulario previo inexistente", func(t *testing.T) {
		_, err := uc.Submit(context.Background(), "user-1", returnReq("no-existe",
			dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 1},
		))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("cantidad no positiva", func(t *testing.T) {
		_, err := uc.Submit(context.Background(), "user-1", borrowReq(
			dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 0},
		))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("sin líneas", func(t *testing.T) {
		_, err := uc.Submit(context.Background(), "user-1", borrowReq())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("estado desconocido", func(t *testing.T) {
		req := borrowReq(dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 1})
		req.ResponsibleParty.Status = "LOST"
		_, err := uc.Submit(context.Background(), "user-1", req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSubmit_DevolucionSobrePrestamoInvalido(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)
	borrowLine := s.linesOf(borrow.FormID)[0]

	ret, err := uc.Submit(context.Background(), "user-1", returnReq(borrow.FormID,
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 2, PreviousLineID: borrowLine.ID},
	))
	require.NoError(t, err)

	// Encadenar una devolución sobre otra devolución no tiene sentido.
	_, err = uc.Submit(context.Background(), "user-1", returnReq(ret.FormID,
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 2},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_FallosParcialesNoAbortanElLote(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	resp, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 3},
		dto.CirculationLinePayload{ID: "item-fantasma", QtyRecorded: 2},
	))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Ledger.Applied)
	assert.Equal(t, 1, resp.Ledger.Failed)
	assert.Contains(t, resp.Ledger.FailedIDs, "item-fantasma")
	assert.Equal(t, int64(7), s.items["item-a"].CurrentQuantity, "el fallo de un ítem no bloquea al resto")
}

func TestGetDetail_PrestamoIncluyeTopeYDisponibles(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	s.seedItem("item-b", 5, 5)
	uc := newCirculationUC(s)

	borrow, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 4},
	))
	require.NoError(t, err)

	detail, err := uc.GetDetail(context.Background(), borrow.FormID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)

	line := detail.Lines[0]
	assert.Equal(t, "item-a", line.ItemID)
	assert.Equal(t, int64(6), line.CurrentQuantity)
	require.NotNil(t, line.MaxRecordable)
	assert.Equal(t, int64(10), *line.MaxRecordable, "tope editable: current + qty_recorded")

	// Ambos ítems siguen con current > 0, los dos aparecen como disponibles.
	assert.Len(t, detail.AvailableItems, 2)
}

func TestGetDetail_FormularioInexistente(t *testing.T) {
	uc := newCirculationUC(newFakeStore())
	_, err := uc.GetDetail(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_IncluyeIdentidadDelRegistrador(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	uc := newCirculationUC(s)

	_, err := uc.Submit(context.Background(), "user-1", borrowReq(
		dto.CirculationLinePayload{ID: "item-a", QtyRecorded: 1},
	))
	require.NoError(t, err)

	forms, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Laborante", forms[0].RecorderName)
	assert.Equal(t, "laborante@lab.test", forms[0].RecorderEmail)
}
