package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/labstock-api/internal/domain/inventory"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// ItemUseCase casos de uso del catálogo jerárquico de ítems: alta por árbol,
// edición con desplazamiento de cantidad, sync de hijos y listados filtrados.
type ItemUseCase struct {
	itemRepo      repository.ItemRepository
	hierarchyRepo repository.HierarchyRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(itemRepo repository.ItemRepository, hierarchyRepo repository.HierarchyRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, hierarchyRepo: hierarchyRepo}
}

// CreateTrees aplana los árboles recibidos a nodos + aristas y los persiste.
// CurrentQuantity arranca igual a BaseQuantity.
func (uc *ItemUseCase) CreateTrees(ctx context.Context, userID string, req dto.CreateItemsRequest) (*dto.CreateItemsResponse, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()

	trees := make([]domaininv.ItemTree, 0, len(req.Items))
	for _, in := range req.Items {
		if in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		tree := domaininv.ItemTree{Item: newItem(in.ItemPayload, userID, now)}
		for _, childIn := range in.Children {
			if childIn.Name == "" {
				return nil, domain.ErrInvalidInput
			}
			tree.Children = append(tree.Children, newItem(childIn, userID, now))
		}
		trees = append(trees, tree)
	}

	nodes, edges := domaininv.Flatten(trees)
	items := make([]*entity.Item, len(nodes))
	for i := range nodes {
		items[i] = &nodes[i]
	}
	if err := uc.itemRepo.CreateMany(ctx, items); err != nil {
		return nil, err
	}
	if len(edges) > 0 {
		if err := uc.hierarchyRepo.InsertMany(ctx, edges); err != nil {
			return nil, err
		}
	}
	return &dto.CreateItemsResponse{InsertedItems: len(items), InsertedEdges: len(edges)}, nil
}

func newItem(in dto.ItemPayload, userID string, now time.Time) entity.Item {
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	return entity.Item{
		ID:              id,
		Name:            in.Name,
		Code:            in.Code,
		Condition:       in.Condition,
		Unit:            in.Unit,
		BaseQuantity:    in.BaseQuantity,
		CurrentQuantity: in.BaseQuantity,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
}

// Update edita un ítem. Cambiar BaseQuantity desplaza CurrentQuantity por la
// diferencia (new-old), nunca lo recalcula desde cero; luego sincroniza la
// lista de hijos por diferencia simétrica.
func (uc *ItemUseCase) Update(ctx context.Context, userID, itemID string, req dto.UpdateItemRequest) (*dto.UpdateItemResponse, error) {
	if req.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	old, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, domain.ErrNotFound
	}

	baseDelta := req.BaseQuantity - old.BaseQuantity
	now := time.Now().UTC()
	updated := &entity.Item{
		ID:           itemID,
		Name:         req.Name,
		Code:         req.Code,
		Condition:    req.Condition,
		Unit:         req.Unit,
		BaseQuantity: req.BaseQuantity,
		UpdatedBy:    &userID,
		UpdatedAt:    &now,
	}
	if err := uc.itemRepo.Update(ctx, updated, baseDelta); err != nil {
		return nil, err
	}

	sync, err := uc.SyncChildren(ctx, itemID, req.ChildIDs)
	if err != nil {
		return nil, err
	}
	return &dto.UpdateItemResponse{Updated: true, Hierarchy: *sync}, nil
}

// SyncChildren reconcilia las aristas persistidas del padre contra la lista
// deseada: inserta las que faltan, elimina las sobrantes. Idempotente.
func (uc *ItemUseCase) SyncChildren(ctx context.Context, parentID string, childIDs []string) (*dto.SyncChildrenResponse, error) {
	current, err := uc.hierarchyRepo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	diff := domaininv.DiffEdges(parentID, current, childIDs)
	if len(diff.ToInsert) > 0 {
		if err := uc.hierarchyRepo.InsertMany(ctx, diff.ToInsert); err != nil {
			return nil, err
		}
	}
	if len(diff.ToDelete) > 0 {
		if err := uc.hierarchyRepo.DeleteMany(ctx, diff.ToDelete); err != nil {
			return nil, err
		}
	}
	return &dto.SyncChildrenResponse{Inserted: len(diff.ToInsert), Deleted: len(diff.ToDelete)}, nil
}

// Delete marca los ítems como eliminados (soft delete) estampando actor y fecha.
func (uc *ItemUseCase) Delete(ctx context.Context, userID string, req dto.DeleteItemsRequest) (*dto.DeleteItemsResponse, error) {
	if len(req.ItemIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	count, err := uc.itemRepo.SoftDeleteMany(ctx, req.ItemIDs, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &dto.DeleteItemsResponse{DeletedCount: count}, nil
}

// ListActive lista ítems raíz activos con hijos embebidos, según filtro:
// all, borrowed (current < base) o not_borrowed (current > 0).
func (uc *ItemUseCase) ListActive(ctx context.Context, filter repository.ItemFilter) ([]dto.ItemTreeResponse, error) {
	switch filter {
	case repository.FilterAll, repository.FilterBorrowed, repository.FilterNotBorrowed:
	case "":
		filter = repository.FilterAll
	default:
		return nil, domain.ErrInvalidInput
	}
	nodes, edges, err := uc.itemRepo.ListActiveFlat(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toTreeResponses(domaininv.Assemble(nodes, edges)), nil
}

// NameSuggestions devuelve un ítem por nombre distinto para autocompletar.
func (uc *ItemUseCase) NameSuggestions(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := uc.itemRepo.ListNameSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

func toItemResponse(it entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:              it.ID,
		Name:            it.Name,
		Code:            it.Code,
		Condition:       it.Condition,
		Unit:            it.Unit,
		BaseQuantity:    it.BaseQuantity,
		CurrentQuantity: it.CurrentQuantity,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}

func toTreeResponses(trees []domaininv.ItemTree) []dto.ItemTreeResponse {
	out := make([]dto.ItemTreeResponse, 0, len(trees))
	for _, t := range trees {
		tr := dto.ItemTreeResponse{ItemResponse: toItemResponse(t.Item), Children: []dto.ItemResponse{}}
		for _, c := range t.Children {
			tr.Children = append(tr.Children, toItemResponse(c))
		}
		out = append(out, tr)
	}
	return out
}
