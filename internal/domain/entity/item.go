package entity

import "time"

// Item representa una unidad física del inventario del laboratorio.
// BaseQuantity es el total declarado; CurrentQuantity es lo disponible ahora,
// ajustado únicamente por incrementos atómicos desde el motor de circulación.
// El almacén no impone 0 <= CurrentQuantity <= BaseQuantity.
type Item struct {
	ID              string
	Name            string
	Code            string
	Condition       string
	Unit            string
	BaseQuantity    int64
	CurrentQuantity int64
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedBy       *string
	UpdatedAt       *time.Time
	DeletedBy       *string
	DeletedAt       *time.Time // soft delete: excluido de vistas activas si no es nil
}
