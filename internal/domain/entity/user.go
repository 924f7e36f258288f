package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleStaff     = "staff"     // asistente de laboratorio: inventario y circulación
	RoleEvaluator = "evaluator" // panelista: califica proyectos
	RoleStudent   = "student"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	StudentCode  *string // carné estudiantil, solo para role student
	Role         string  // admin, staff, evaluator, student
	Status       string  // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
