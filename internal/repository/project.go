package repository

import (
	"context"

	"gestufas/internal/models"

	"gorm.io/gorm"
)

// ProjectFilter narrows project listings. Zero values mean "no filter".
type ProjectFilter struct {
	Status models.ProjectStatus
	Search string
}

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	List(ctx context.Context, filter ProjectFilter, limit, offset int) ([]*models.Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Project, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("User").First(&project, id).Error; err != nil {
		return nil, err
	}
	// No membership table yet; the creator is the only member.
	project.MemberCount = 1
	return &project, nil
}

func (r *projectRepository) filtered(ctx context.Context, filter ProjectFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	return q
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter, limit, offset int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.filtered(ctx, filter).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		project.MemberCount = 1
	}
	return projects, nil
}

func (r *projectRepository) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *projectRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error
	return count, err
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}
