package grading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	domaingrading "github.com/jhoicas/labstock-api/internal/domain/grading"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var maxScore = decimal.NewFromInt(100)

// UseCase casos de uso de evaluación de proyectos: consulta de grupos y
// aspectos, captura de planillas por evaluador y consolidados de notas.
type UseCase struct {
	groupRepo  repository.GroupRepository
	aspectRepo repository.AspectRepository
	scoreRepo  repository.ScoreRepository
}

// NewUseCase construye el caso de uso de evaluación.
func NewUseCase(groupRepo repository.GroupRepository, aspectRepo repository.AspectRepository, scoreRepo repository.ScoreRepository) *UseCase {
	return &UseCase{groupRepo: groupRepo, aspectRepo: aspectRepo, scoreRepo: scoreRepo}
}

// ListGroups lista grupos de proyecto filtrados por años y clases.
func (uc *UseCase) ListGroups(ctx context.Context, years []int, classes []string) ([]dto.GroupResponse, error) {
	groups, err := uc.groupRepo.List(ctx, years, classes)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	return out, nil
}

// ListAspects lista aspectos padre del tipo dado con sus hijos embebidos.
func (uc *UseCase) ListAspects(ctx context.Context, kind string, years []int) ([]dto.AspectResponse, error) {
	if kind != entity.AspectKindGroup && kind != entity.AspectKindIndividual {
		return nil, domain.ErrInvalidInput
	}
	parents, err := uc.aspectRepo.ListParents(ctx, kind, years)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AspectResponse, 0, len(parents))
	for _, p := range parents {
		resp := toAspectResponse(p.AssessmentAspect)
		for _, c := range p.Children {
			resp.Children = append(resp.Children, toAspectResponse(c))
		}
		out = append(out, resp)
	}
	return out, nil
}

// SubmitGroupScore registra la planilla grupal de un evaluador. Un evaluador
// solo puede calificar cada grupo una vez.
func (uc *UseCase) SubmitGroupScore(ctx context.Context, evaluatorID string, req dto.SubmitGroupScoreRequest) (*dto.InsertedResponse, error) {
	if req.GroupID == "" || len(req.Entries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	entries, err := toEntries(req.Entries)
	if err != nil {
		return nil, err
	}
	group, err := uc.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.scoreRepo.GetGroupScore(ctx, req.GroupID, evaluatorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	score := &entity.GroupScore{
		ID:          uuid.New().String(),
		GroupID:     req.GroupID,
		EvaluatorID: evaluatorID,
		Year:        req.Year,
		Class:       req.Class,
		Entries:     entries,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.scoreRepo.InsertGroupScores(ctx, []*entity.GroupScore{score}); err != nil {
		return nil, err
	}
	return &dto.InsertedResponse{InsertedCount: 1}, nil
}

// GetGroupScore devuelve la planilla de un evaluador para un grupo.
func (uc *UseCase) GetGroupScore(ctx context.Context, groupID, evaluatorID string) (*dto.ScoreSheetResponse, error) {
	score, err := uc.scoreRepo.GetGroupScore(ctx, groupID, evaluatorID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.ScoreSheetResponse{
		ID:          score.ID,
		GroupID:     score.GroupID,
		EvaluatorID: score.EvaluatorID,
		Entries:     toEntryPayloads(score.Entries),
	}, nil
}

// SubmitIndividualScores registra las planillas individuales de un evaluador
// para los integrantes de un grupo, como lote todo-o-nada: una planilla
// duplicada rechaza el envío completo.
func (uc *UseCase) SubmitIndividualScores(ctx context.Context, evaluatorID string, req dto.SubmitIndividualScoreRequest) (*dto.InsertedResponse, error) {
	if req.GroupID == "" || len(req.Sheets) == 0 {
		return nil, domain.ErrInvalidInput
	}
	group, err := uc.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	scores := make([]*entity.IndividualScore, 0, len(req.Sheets))
	for _, sheet := range req.Sheets {
		if sheet.StudentID == "" || len(sheet.Entries) == 0 {
			return nil, domain.ErrInvalidInput
		}
		entries, err := toEntries(sheet.Entries)
		if err != nil {
			return nil, err
		}
		existing, err := uc.scoreRepo.GetIndividualScore(ctx, sheet.StudentID, evaluatorID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		scores = append(scores, &entity.IndividualScore{
			ID:          uuid.New().String(),
			StudentID:   sheet.StudentID,
			GroupID:     req.GroupID,
			EvaluatorID: evaluatorID,
			Year:        req.Year,
			Class:       req.Class,
			Entries:     entries,
			CreatedAt:   now,
		})
	}
	if err := uc.scoreRepo.InsertIndividualScores(ctx, scores); err != nil {
		return nil, err
	}
	return &dto.InsertedResponse{InsertedCount: len(scores)}, nil
}

// GetIndividualScore devuelve la planilla de un evaluador para un estudiante.
func (uc *UseCase) GetIndividualScore(ctx context.Context, studentID, evaluatorID string) (*dto.ScoreSheetResponse, error) {
	score, err := uc.scoreRepo.GetIndividualScore(ctx, studentID, evaluatorID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.ScoreSheetResponse{
		ID:          score.ID,
		GroupID:     score.GroupID,
		StudentID:   score.StudentID,
		EvaluatorID: score.EvaluatorID,
		Entries:     toEntryPayloads(score.Entries),
	}, nil
}

// RecapGroups arma el consolidado grupal: nota final por evaluador (suma
// ponderada) promediada entre evaluadores.
func (uc *UseCase) RecapGroups(ctx context.Context, years []int, classes []string) ([]dto.GroupRecapRow, error) {
	groups, err := uc.groupRepo.List(ctx, years, classes)
	if err != nil {
		return nil, err
	}
	weightsByYear, err := uc.weightsByYear(ctx, entity.AspectKindGroup, groups)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GroupRecapRow, 0, len(groups))
	for _, g := range groups {
		sheets, err := uc.scoreRepo.ListGroupScores(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		finals := make([]decimal.Decimal, 0, len(sheets))
		for _, sheet := range sheets {
			finals = append(finals, domaingrading.FinalScore(sheet.Entries, weightsByYear[g.Year]))
		}
		row := dto.GroupRecapRow{
			GroupID:        g.ID,
			Number:         g.Number,
			Class:          g.Class,
			Year:           g.Year,
			EvaluatorCount: len(sheets),
			FinalScore:     domaingrading.AverageScore(finals),
		}
		for _, m := range g.Members {
			row.Members = append(row.Members, toMemberResponse(m))
		}
		out = append(out, row)
	}
	return out, nil
}

// RecapIndividuals arma el consolidado individual de una clase y año.
func (uc *UseCase) RecapIndividuals(ctx context.Context, year int, class string) ([]dto.IndividualRecapRow, error) {
	sheets, err := uc.scoreRepo.ListIndividualScores(ctx, year, class)
	if err != nil {
		return nil, err
	}
	parents, err := uc.aspectRepo.ListParents(ctx, entity.AspectKindIndividual, []int{year})
	if err != nil {
		return nil, err
	}
	weights := domaingrading.WeightIndex(flattenAspects(parents))

	// Agrupado por estudiante preservando orden de aparición.
	byStudent := map[string][]entity.IndividualScore{}
	var order []string
	for _, sheet := range sheets {
		if _, seen := byStudent[sheet.StudentID]; !seen {
			order = append(order, sheet.StudentID)
		}
		byStudent[sheet.StudentID] = append(byStudent[sheet.StudentID], sheet)
	}

	out := make([]dto.IndividualRecapRow, 0, len(order))
	for _, studentID := range order {
		studentSheets := byStudent[studentID]
		finals := make([]decimal.Decimal, 0, len(studentSheets))
		for _, sheet := range studentSheets {
			finals = append(finals, domaingrading.FinalScore(sheet.Entries, weights))
		}
		out = append(out, dto.IndividualRecapRow{
			StudentID:      studentID,
			GroupID:        studentSheets[0].GroupID,
			Class:          class,
			Year:           year,
			EvaluatorCount: len(studentSheets),
			FinalScore:     domaingrading.AverageScore(finals),
		})
	}
	return out, nil
}

func (uc *UseCase) weightsByYear(ctx context.Context, kind string, groups []repository.GroupWithMembers) (map[int]map[string]decimal.Decimal, error) {
	years := map[int]bool{}
	for _, g := range groups {
		years[g.Year] = true
	}
	out := make(map[int]map[string]decimal.Decimal, len(years))
	for year := range years {
		parents, err := uc.aspectRepo.ListParents(ctx, kind, []int{year})
		if err != nil {
			return nil, err
		}
		out[year] = domaingrading.WeightIndex(flattenAspects(parents))
	}
	return out, nil
}

func flattenAspects(parents []repository.AspectWithChildren) []entity.AssessmentAspect {
	var out []entity.AssessmentAspect
	for _, p := range parents {
		out = append(out, p.AssessmentAspect)
		out = append(out, p.Children...)
	}
	return out
}

func toEntries(in []dto.ScoreEntryPayload) ([]entity.ScoreEntry, error) {
	out := make([]entity.ScoreEntry, 0, len(in))
	for _, e := range in {
		if e.AspectID == "" || e.Score.IsNegative() || e.Score.GreaterThan(maxScore) {
			return nil, domain.ErrInvalidInput
		}
		out = append(out, entity.ScoreEntry{AspectID: e.AspectID, Score: e.Score})
	}
	return out, nil
}

func toEntryPayloads(in []entity.ScoreEntry) []dto.ScoreEntryPayload {
	out := make([]dto.ScoreEntryPayload, 0, len(in))
	for _, e := range in {
		out = append(out, dto.ScoreEntryPayload{AspectID: e.AspectID, Score: e.Score})
	}
	return out
}

func toGroupResponse(g repository.GroupWithMembers) dto.GroupResponse {
	resp := dto.GroupResponse{
		ID:      g.ID,
		Number:  g.Number,
		Class:   g.Class,
		Year:    g.Year,
		Report:  g.Report,
		Members: make([]dto.GroupMemberResponse, 0, len(g.Members)),
	}
	for _, m := range g.Members {
		resp.Members = append(resp.Members, toMemberResponse(m))
	}
	return resp
}

func toMemberResponse(m repository.GroupMember) dto.GroupMemberResponse {
	return dto.GroupMemberResponse{UserID: m.UserID, Name: m.Name, StudentCode: m.StudentCode}
}

func toAspectResponse(a entity.AssessmentAspect) dto.AspectResponse {
	return dto.AspectResponse{
		ID:       a.ID,
		Name:     a.Name,
		Weight:   a.Weight,
		Year:     a.Year,
		IsParent: a.IsParent,
	}
}
