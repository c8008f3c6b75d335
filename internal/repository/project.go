package repository

import (
	"context"

	"hermes/internal/model"
)

// ProjectQuery selects projects for search.
type ProjectQuery struct {
	Text      string
	Filters   []Filter
	Ascending bool
	Page      PageQuery
}

// ProjectRepository defines data access for projects.
type ProjectRepository interface {
	FindByID(ctx context.Context, id int) (*model.Project, error)
	Search(ctx context.Context, q ProjectQuery) (*PageResult[model.Project], error)
	Upsert(ctx context.Context, p *model.Project) error
}

// ProjectFilterKeys lists the filter keys project Search understands.
var ProjectFilterKeys = []string{"status", "creator", "products"}
