package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hermes/internal/model"
	"hermes/internal/repository"
)

// ProjectPostgres is a PostgreSQL implementation of
// repository.ProjectRepository.
type ProjectPostgres struct {
	db *sql.DB
}

func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

const projectColumns = `id, title, status, description, creator, jira_issue_id, products, created_time, modified_time`

var projectFilters = map[string]column{
	"status":   {name: "status"},
	"creator":  {name: "creator"},
	"products": {name: "products", array: true},
}

func scanProject(s rowScanner) (*model.Project, error) {
	var (
		p        model.Project
		products []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Status,
		&p.Description,
		&p.Creator,
		&p.JiraIssueID,
		&products,
		&p.CreatedTime,
		&p.ModifiedTime,
	); err != nil {
		return nil, err
	}
	if err := scanList(products, &p.Products); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectPostgres) FindByID(ctx context.Context, id int) (*model.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectPostgres) Search(ctx context.Context, pq repository.ProjectQuery) (*repository.PageResult[model.Project], error) {
	conds, args, err := where(pq.Filters, projectFilters, nil)
	if err != nil {
		return nil, err
	}
	if pq.Text != "" {
		var cond string
		cond, args = textMatch(pq.Text, args)
		conds = append(conds, cond)
	}
	whereClause := whereSQL(conds)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+whereClause, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pq.Page.Limit, pq.Page.Offset)
	q := `SELECT ` + projectColumns + ` FROM projects` + whereClause + orderSQL(pq.Ascending, "id") +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Project]{Items: items, Total: total}, nil
}

func (r *ProjectPostgres) Upsert(ctx context.Context, p *model.Project) error {
	const q = `
		INSERT INTO projects (id, title, status, description, creator, jira_issue_id, products, created_time, modified_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			description = EXCLUDED.description,
			creator = EXCLUDED.creator,
			jira_issue_id = EXCLUDED.jira_issue_id,
			products = EXCLUDED.products,
			created_time = EXCLUDED.created_time,
			modified_time = EXCLUDED.modified_time
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID,
		p.Title,
		p.Status,
		p.Description,
		p.Creator,
		p.JiraIssueID,
		jsonList(p.Products),
		p.CreatedTime,
		p.ModifiedTime,
	)
	return err
}
