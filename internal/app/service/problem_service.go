package service

import (
	"context"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
	"algopulse/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ProblemService manages the Problem of the Day board (admin curated).
type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

type ProblemRequest struct {
	Title      string                  `json:"title"`
	Link       string                  `json:"link"`
	Difficulty model.ProblemDifficulty `json:"difficulty"`
}

func (r ProblemRequest) validate() error {
	if r.Title == "" || r.Link == "" {
		return fmt.Errorf("title and link are required: %w", common.ErrBadRequest)
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("difficulty must be Easy, Medium or Hard: %w", common.ErrValidation)
	}
	return nil
}

func (s *ProblemService) AddProblem(ctx context.Context, req ProblemRequest) (*model.Problem, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	problem := &model.Problem{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Slug:       slug.Make(req.Title),
		Link:       req.Link,
		Difficulty: req.Difficulty,
	}
	if err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) UpdateProblem(ctx context.Context, id string, req ProblemRequest) (*model.Problem, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("problem lookup failed: %w", err)
	}
	problem.Title = req.Title
	problem.Slug = slug.Make(req.Title)
	problem.Link = req.Link
	problem.Difficulty = req.Difficulty
	if err := s.problemRepo.Update(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) DeleteProblem(ctx context.Context, id string) error {
	if err := s.problemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}
	return nil
}

func (s *ProblemService) LatestProblem(ctx context.Context) (*model.Problem, error) {
	problem, err := s.problemRepo.FindLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) ListProblems(ctx context.Context) ([]model.Problem, error) {
	problems, err := s.problemRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}
