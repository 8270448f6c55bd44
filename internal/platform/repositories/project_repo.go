package repositories

import (
	"context"
	"database/sql"

	"workhive/internal/platform/models"
)

// ProjectRepository works against a single tenant store. Handlers construct
// it per request from the tenant context's connection.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, created_by, created_at) VALUES (?, ?, ?, ?)
	`, project.ID, project.Name, project.CreatedBy, project.CreatedAt)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_by, created_at FROM projects WHERE id = ?
	`, id).Scan(&project.ID, &project.Name, &project.CreatedBy, &project.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_by, created_at FROM projects ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p := &models.Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, title, created_by, created_at) VALUES (?, ?, ?, ?, ?)
	`, task.ID, task.ProjectID, task.Title, task.CreatedBy, task.CreatedAt)
	return err
}
