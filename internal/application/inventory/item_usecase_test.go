package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

func newItemUC(s *fakeStore) *ItemUseCase {
	return NewItemUseCase(&fakeItemRepo{s: s}, &fakeHierarchyRepo{s: s})
}

func TestCreateTrees_PersisteNodosYAristas(t *testing.T) {
	s := newFakeStore()
	uc := newItemUC(s)

	resp, err := uc.CreateTrees(context.Background(), "user-1", dto.CreateItemsRequest{
		Items: []dto.ItemTreeRequest{
			{
				ItemPayload: dto.ItemPayload{ID: "kit", Name: "Kit de disección", BaseQuantity: 5},
				Children: []dto.ItemPayload{
					{ID: "bisturi", Name: "Bisturí", BaseQuantity: 5},
					{ID: "pinza", Name: "Pinza", BaseQuantity: 10},
				},
			},
			{ItemPayload: dto.ItemPayload{ID: "mechero", Name: "Mechero Bunsen", BaseQuantity: 3}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.InsertedItems)
	assert.Equal(t, 2, resp.InsertedEdges)

	kit := s.items["kit"]
	require.NotNil(t, kit)
	assert.Equal(t, int64(5), kit.CurrentQuantity, "CurrentQuantity arranca igual a BaseQuantity")
	assert.Len(t, s.edges, 2)
}

func TestCreateTrees_NombreObligatorio(t *testing.T) {
	uc := newItemUC(newFakeStore())
	_, err := uc.CreateTrees(context.Background(), "user-1", dto.CreateItemsRequest{
		Items: []dto.ItemTreeRequest{{ItemPayload: dto.ItemPayload{Name: ""}}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_DesplazaCurrentPorLaDiferencia(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 6) // 4 prestados
	uc := newItemUC(s)

	_, err := uc.Update(context.Background(), "user-1", "item-a", dto.UpdateItemRequest{
		Name:         "item a",
		BaseQuantity: 12,
	})
	require.NoError(t, err)

	it := s.items["item-a"]
	assert.Equal(t, int64(12), it.BaseQuantity)
	assert.Equal(t, int64(8), it.CurrentQuantity, "current se desplaza por new-old, preservando lo prestado")
}

func TestUpdate_ItemInexistente(t *testing.T) {
	uc := newItemUC(newFakeStore())
	_, err := uc.Update(context.Background(), "user-1", "no-existe", dto.UpdateItemRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncChildren_EsIdempotente(t *testing.T) {
	s := newFakeStore()
	s.seedItem("padre", 1, 1)
	s.seedItem("hijo-a", 1, 1)
	s.seedItem("hijo-b", 1, 1)
	s.seedItem("hijo-c", 1, 1)
	uc := newItemUC(s)

	first, err := uc.SyncChildren(context.Background(), "padre", []string{"hijo-a", "hijo-b"})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)
	assert.Equal(t, 0, first.Deleted)

	second, err := uc.SyncChildren(context.Background(), "padre", []string{"hijo-a", "hijo-b"})
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Zero(t, second.Deleted)

	third, err := uc.SyncChildren(context.Background(), "padre", []string{"hijo-b", "hijo-c"})
	require.NoError(t, err)
	assert.Equal(t, 1, third.Inserted)
	assert.Equal(t, 1, third.Deleted)
	assert.Len(t, s.edges, 2)
}

func TestDelete_MarcaSinBorrarFisicamente(t *testing.T) {
	s := newFakeStore()
	s.seedItem("item-a", 10, 10)
	s.seedItem("item-b", 5, 5)
	uc := newItemUC(s)

	resp, err := uc.Delete(context.Background(), "user-1", dto.DeleteItemsRequest{ItemIDs: []string{"item-a", "no-existe"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.DeletedCount)

	require.NotNil(t, s.items["item-a"].DeletedAt, "soft delete: el registro sigue existiendo")

	trees, err := uc.ListActive(context.Background(), repository.FilterAll)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	assert.Equal(t, "item-b", trees[0].ID)
}

func TestListActive_FiltrosDePrestamo(t *testing.T) {
	s := newFakeStore()
	s.seedItem("agotado", 10, 0)   // todo prestado
	s.seedItem("parcial", 10, 6)   // algo prestado
	s.seedItem("completo", 10, 10) // nada prestado
	uc := newItemUC(s)

	borrowed, err := uc.ListActive(context.Background(), repository.FilterBorrowed)
	require.NoError(t, err)
	ids := make([]string, 0, len(borrowed))
	for _, tr := range borrowed {
		ids = append(ids, tr.ID)
	}
	assert.ElementsMatch(t, []string{"agotado", "parcial"}, ids)

	available, err := uc.ListActive(context.Background(), repository.FilterNotBorrowed)
	require.NoError(t, err)
	ids = ids[:0]
	for _, tr := range available {
		ids = append(ids, tr.ID)
	}
	assert.ElementsMatch(t, []string{"parcial", "completo"}, ids)

	_, err = uc.ListActive(context.Background(), repository.ItemFilter("otro"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListActive_EmbebeHijos(t *testing.T) {
	s := newFakeStore()
	uc := newItemUC(s)

	_, err := uc.CreateTrees(context.Background(), "user-1", dto.CreateItemsRequest{
		Items: []dto.ItemTreeRequest{{
			ItemPayload: dto.ItemPayload{ID: "kit", Name: "Kit", BaseQuantity: 2},
			Children:    []dto.ItemPayload{{ID: "parte", Name: "Parte", BaseQuantity: 2}},
		}},
	})
	require.NoError(t, err)

	trees, err := uc.ListActive(context.Background(), repository.FilterAll)
	require.NoError(t, err)
	require.Len(t, trees, 1, "los hijos no aparecen como raíces")
	assert.Equal(t, "kit", trees[0].ID)
	require.Len(t, trees[0].Children, 1)
	assert.Equal(t, "parte", trees[0].Children[0].ID)
}

func TestNameSuggestions_UnoPorNombre(t *testing.T) {
	s := newFakeStore()
	s.seedItem("a1", 1, 1)
	s.seedItem("a2", 1, 1)
	s.items["a2"].Name = s.items["a1"].Name // nombre repetido
	s.seedItem("b1", 1, 1)
	uc := newItemUC(s)

	out, err := uc.NameSuggestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
