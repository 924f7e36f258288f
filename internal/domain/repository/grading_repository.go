package repository

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// GroupMember es la identidad mínima de un integrante de grupo.
type GroupMember struct {
	UserID      string
	Name        string
	StudentCode string
}

// GroupWithMembers es un grupo con sus integrantes embebidos.
type GroupWithMembers struct {
	entity.ProjectGroup
	Members []GroupMember
}

// GroupRepository es el puerto de lectura de grupos de proyecto.
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*GroupWithMembers, error)
	List(ctx context.Context, years []int, classes []string) ([]GroupWithMembers, error)
}

// AspectWithChildren es un aspecto padre con sus hijos embebidos (un nivel).
type AspectWithChildren struct {
	entity.AssessmentAspect
	Children []entity.AssessmentAspect
}

// AspectRepository es el puerto de lectura de aspectos de evaluación.
type AspectRepository interface {
	// ListParents devuelve los aspectos padre del tipo y años dados con sus
	// hijos embebidos.
	ListParents(ctx context.Context, kind string, years []int) ([]AspectWithChildren, error)
}

// ScoreRepository es el puerto de persistencia de planillas de notas.
type ScoreRepository interface {
	InsertGroupScores(ctx context.Context, scores []*entity.GroupScore) error
	GetGroupScore(ctx context.Context, groupID, evaluatorID string) (*entity.GroupScore, error)
	ListGroupScores(ctx context.Context, groupID string) ([]entity.GroupScore, error)

	InsertIndividualScores(ctx context.Context, scores []*entity.IndividualScore) error
	GetIndividualScore(ctx context.Context, studentID, evaluatorID string) (*entity.IndividualScore, error)
	ListIndividualScoresByGroup(ctx context.Context, groupID string) ([]entity.IndividualScore, error)
	ListIndividualScores(ctx context.Context, year int, class string) ([]entity.IndividualScore, error)
}
