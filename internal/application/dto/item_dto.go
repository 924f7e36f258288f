package dto

import "time"

// ItemPayload campos de un ítem en creación/edición.
type ItemPayload struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Condition    string `json:"condition"`
	Unit         string `json:"unit"`
	BaseQuantity int64  `json:"base_quantity"`
}

// ItemTreeRequest un ítem raíz con sus hijos de primer nivel.
type ItemTreeRequest struct {
	ItemPayload
	Children []ItemPayload `json:"children,omitempty"`
}

// CreateItemsRequest body para POST /api/items (acepta varios árboles).
type CreateItemsRequest struct {
	Items []ItemTreeRequest `json:"items"`
}

// CreateItemsResponse conteos de inserción.
type CreateItemsResponse struct {
	InsertedItems int `json:"inserted_items"`
	InsertedEdges int `json:"inserted_edges"`
}

// UpdateItemRequest body para PUT /api/items/:id. La edición de BaseQuantity
// desplaza CurrentQuantity por la diferencia; ChildIDs reemplaza la lista de
// hijos (sync por diferencia simétrica).
type UpdateItemRequest struct {
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	Condition    string   `json:"condition"`
	Unit         string   `json:"unit"`
	BaseQuantity int64    `json:"base_quantity"`
	ChildIDs     []string `json:"child_ids"`
}

// SyncChildrenResponse operaciones aplicadas al sincronizar jerarquía.
type SyncChildrenResponse struct {
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
}

// UpdateItemResponse resultado de la edición.
type UpdateItemResponse struct {
	Updated   bool                 `json:"updated"`
	Hierarchy SyncChildrenResponse `json:"hierarchy"`
}

// DeleteItemsRequest body para DELETE /api/items (soft delete masivo).
type DeleteItemsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// DeleteItemsResponse conteo de marcados como eliminados.
type DeleteItemsResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ItemResponse un ítem en respuestas.
type ItemResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Code            string     `json:"code"`
	Condition       string     `json:"condition"`
	Unit            string     `json:"unit"`
	BaseQuantity    int64      `json:"base_quantity"`
	CurrentQuantity int64      `json:"current_quantity"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// ItemTreeResponse un ítem raíz con hijos embebidos (un nivel).
type ItemTreeResponse struct {
	ItemResponse
	Children []ItemResponse `json:"children"`
}
