package project

import (
	"context"
	"errors"

	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectService interface {
	CreateProject(ctx context.Context, createdBy primitive.ObjectID, p *Project) error
	ListProjects(ctx context.Context) ([]Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*Project, error)
	UpdateProject(ctx context.Context, id primitive.ObjectID, p *Project) error
	DeleteProject(ctx context.Context, id primitive.ObjectID) error
}

type ProjectServiceImpl struct {
	repo ProjectRepository
}

func NewProjectService(repo ProjectRepository) ProjectService {
	return &ProjectServiceImpl{repo: repo}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, createdBy primitive.ObjectID, p *Project) error {
	if p.Name == "" {
		return errors.New("project name is required")
	}
	p.Slug = utils.Slugify(p.Name)
	p.CreatedBy = createdBy

	if existing, _ := s.repo.FindBySlug(ctx, p.Slug); existing != nil {
		return errors.New("a project with this name already exists")
	}
	return s.repo.Create(ctx, p)
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context) ([]Project, error) {
	return s.repo.FindAll(ctx)
}

func (s *ProjectServiceImpl) GetProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, id primitive.ObjectID, p *Project) error {
	if p.Name == "" {
		return errors.New("project name is required")
	}
	p.Slug = utils.Slugify(p.Name)
	return s.repo.Update(ctx, id, p)
}

func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}
