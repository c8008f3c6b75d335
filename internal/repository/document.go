package repository

import (
	"context"

	"hermes/internal/model"
)

// DocumentQuery selects documents or drafts for search.
type DocumentQuery struct {
	Drafts bool
	// Text matches titles, case-insensitively.
	Text    string
	Filters []Filter
	// Ascending orders by modified time oldest first.
	Ascending bool
	Page      PageQuery
}

// DocumentRepository defines data access for documents and drafts.
type DocumentRepository interface {
	// FindByID returns a published document (draft=false) or a draft, or
	// ErrNotFound.
	FindByID(ctx context.Context, id string, draft bool) (*model.Document, error)

	// Search returns a page of documents matching q, newest first unless
	// q.Ascending is set.
	Search(ctx context.Context, q DocumentQuery) (*PageResult[model.Document], error)

	// Upsert inserts or replaces doc, keyed by ObjectID.
	Upsert(ctx context.Context, doc *model.Document) error
}

// DocumentFilterKeys lists the filter keys Search understands.
var DocumentFilterKeys = []string{"status", "product", "docType", "owners", "approvers", "contributors"}
