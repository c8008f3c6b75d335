package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hermes/internal/model"
	"hermes/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. Documents and drafts share one table.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, is_draft, title, doc_type, doc_number, product, status, summary,
		owners, approvers, contributors, created_time, modified_time`

var documentFilters = map[string]column{
	"status":       {name: "status"},
	"product":      {name: "product"},
	"docType":      {name: "doc_type"},
	"owners":       {name: "owners", array: true},
	"approvers":    {name: "approvers", array: true},
	"contributors": {name: "contributors", array: true},
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*model.Document, error) {
	var (
		d                               model.Document
		owners, approvers, contributors []byte
	)
	if err := s.Scan(
		&d.ObjectID,
		&d.IsDraft,
		&d.Title,
		&d.DocType,
		&d.DocNumber,
		&d.Product,
		&d.Status,
		&d.Summary,
		&owners,
		&approvers,
		&contributors,
		&d.CreatedTime,
		&d.ModifiedTime,
	); err != nil {
		return nil, err
	}
	for _, l := range []struct {
		raw []byte
		dst *[]string
	}{{owners, &d.Owners}, {approvers, &d.Approvers}, {contributors, &d.Contributors}} {
		if err := scanList(l.raw, l.dst); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

// FindByID fetches a single document or draft by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string, draft bool) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND is_draft = $2`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id, draft))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Search returns one page of matching documents and the total match count.
func (r *DocumentPostgres) Search(ctx context.Context, dq repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	args := []any{dq.Drafts}
	conds := []string{"is_draft = $1"}

	filterConds, args, err := where(dq.Filters, documentFilters, args)
	if err != nil {
		return nil, err
	}
	conds = append(conds, filterConds...)
	if dq.Text != "" {
		var cond string
		cond, args = textMatch(dq.Text, args)
		conds = append(conds, cond)
	}
	whereClause := whereSQL(conds)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+whereClause, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, dq.Page.Limit, dq.Page.Offset)
	q := `SELECT ` + documentColumns + ` FROM documents` + whereClause + orderSQL(dq.Ascending, "id") +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Upsert inserts doc or replaces the row with the same ID.
func (r *DocumentPostgres) Upsert(ctx context.Context, doc *model.Document) error {
	const q = `
		INSERT INTO documents (id, is_draft, title, doc_type, doc_number, product, status, summary,
			owners, approvers, contributors, created_time, modified_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11::jsonb, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			is_draft = EXCLUDED.is_draft,
			title = EXCLUDED.title,
			doc_type = EXCLUDED.doc_type,
			doc_number = EXCLUDED.doc_number,
			product = EXCLUDED.product,
			status = EXCLUDED.status,
			summary = EXCLUDED.summary,
			owners = EXCLUDED.owners,
			approvers = EXCLUDED.approvers,
			contributors = EXCLUDED.contributors,
			created_time = EXCLUDED.created_time,
			modified_time = EXCLUDED.modified_time
	`
	_, err := r.db.ExecContext(ctx, q,
		doc.ObjectID,
		doc.IsDraft,
		doc.Title,
		doc.DocType,
		doc.DocNumber,
		doc.Product,
		doc.Status,
		doc.Summary,
		jsonList(doc.Owners),
		jsonList(doc.Approvers),
		jsonList(doc.Contributors),
		doc.CreatedTime,
		doc.ModifiedTime,
	)
	return err
}
