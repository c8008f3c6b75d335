package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hermes/internal/model"
	"hermes/internal/repository"
	"hermes/internal/viewindex"
)

const (
	// MaxGroupResults caps a groups search.
	MaxGroupResults = 20
	// DefaultHitsPerPage applies when a search does not ask for a page size.
	DefaultHitsPerPage = 20
	// MaxHitsPerPage caps the page size of a search.
	MaxHitsPerPage = 100
	// MaxPage keeps the row offset of the last page within an int32.
	MaxPage = math.MaxInt32 / MaxHitsPerPage
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrUnknownIndex     = errors.New("unknown search index")
	ErrInvalidSearch    = errors.New("invalid search")
	ErrEmailRequired    = errors.New("exactly one email is required")
)

// IndexKind is what a search index holds.
type IndexKind string

const (
	IndexDocs     IndexKind = "docs"
	IndexDrafts   IndexKind = "drafts"
	IndexProjects IndexKind = "projects"
)

// SearchIndex is a parsed search index name such as "docs_modifiedTime_asc".
type SearchIndex struct {
	Kind      IndexKind
	Ascending bool
}

// ParseIndex resolves an index name. Indexes are newest first unless
// suffixed "_modifiedTime_asc".
func ParseIndex(name string) (SearchIndex, error) {
	var idx SearchIndex
	base := name
	switch {
	case strings.HasSuffix(name, "_modifiedTime_desc"):
		base = strings.TrimSuffix(name, "_modifiedTime_desc")
	case strings.HasSuffix(name, "_modifiedTime_asc"):
		base = strings.TrimSuffix(name, "_modifiedTime_asc")
		idx.Ascending = true
	}
	switch base {
	case "docs", "documents":
		idx.Kind = IndexDocs
	case "drafts":
		idx.Kind = IndexDrafts
	case "projects":
		idx.Kind = IndexProjects
	default:
		return SearchIndex{}, fmt.Errorf("%w: %q", ErrUnknownIndex, name)
	}
	return idx, nil
}

// ParseFilters collects the "key:value" constraints of a search request.
func ParseFilters(req model.SearchRequest) ([]repository.Filter, error) {
	raw := append([]string(nil), req.FacetFilters...)
	if req.Filters != "" {
		raw = append(raw, strings.Split(req.Filters, " AND ")...)
	}

	var filters []repository.Filter
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		key, value, ok := strings.Cut(r, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: filter %q is not key:value", ErrInvalidSearch, r)
		}
		filters = append(filters, repository.Filter{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return filters, nil
}

// WorkspaceService implements the backend side of the Hermes API for the
// mock server: directory, documents, projects, view history and search.
type WorkspaceService interface {
	// People returns the directory entry for email as a list of zero or
	// one people.
	People(ctx context.Context, email string) ([]model.Person, error)

	// Groups returns at most MaxGroupResults groups matching query.
	Groups(ctx context.Context, query string) ([]model.Group, error)

	// Document returns a document or draft, recording the view for user
	// when record is set.
	Document(ctx context.Context, user, id string, draft, record bool) (*model.Document, error)

	// Project returns a project, recording the view for user when record is
	// set.
	Project(ctx context.Context, user string, id int, record bool) (*model.Project, error)

	// RecentlyViewedDocs lists user's viewed documents, newest first,
	// skipping documents that no longer exist.
	RecentlyViewedDocs(ctx context.Context, user string) ([]model.RecentlyViewedDocRef, error)

	// RecentlyViewedProjects lists user's viewed projects, newest first,
	// skipping projects that no longer exist.
	RecentlyViewedProjects(ctx context.Context, user string) ([]model.RecentlyViewedProjectRef, error)

	SearchDocuments(ctx context.Context, idx SearchIndex, req model.SearchRequest) (*model.SearchResponse, error)
	SearchProjects(ctx context.Context, idx SearchIndex, req model.SearchRequest) (*model.ProjectSearchResponse, error)
}

type workspaceService struct {
	directory repository.DirectoryRepository
	documents repository.DocumentRepository
	projects  repository.ProjectRepository
	views     *viewindex.Store
	now       func() time.Time
}

// NewWorkspaceService constructs a WorkspaceService.
func NewWorkspaceService(
	directory repository.DirectoryRepository,
	documents repository.DocumentRepository,
	projects repository.ProjectRepository,
	views *viewindex.Store,
) WorkspaceService {
	return &workspaceService{
		directory: directory,
		documents: documents,
		projects:  projects,
		views:     views,
		now:       time.Now,
	}
}

func (s *workspaceService) People(ctx context.Context, email string) ([]model.Person, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.Contains(email, ",") {
		return nil, ErrEmailRequired
	}
	row, err := s.directory.FindPerson(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.Person{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find person: %w", err)
	}
	return []model.Person{row.Person()}, nil
}

func (s *workspaceService) Groups(ctx context.Context, query string) ([]model.Group, error) {
	groups, err := s.directory.SearchGroups(ctx, strings.TrimSpace(query), MaxGroupResults)
	if err != nil {
		return nil, fmt.Errorf("search groups: %w", err)
	}
	if groups == nil {
		groups = []model.Group{}
	}
	return groups, nil
}

func (s *workspaceService) Document(ctx context.Context, user, id string, draft, record bool) (*model.Document, error) {
	doc, err := s.documents.FindByID(ctx, id, draft)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	if record {
		if err := s.views.RecordDoc(ctx, user, id, draft, s.now()); err != nil {
			return nil, fmt.Errorf("record document view: %w", err)
		}
	}
	return doc, nil
}

func (s *workspaceService) Project(ctx context.Context, user string, id int, record bool) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	if record {
		if err := s.views.RecordProject(ctx, user, id, s.now()); err != nil {
			return nil, fmt.Errorf("record project view: %w", err)
		}
	}
	return p, nil
}

func (s *workspaceService) RecentlyViewedDocs(ctx context.Context, user string) ([]model.RecentlyViewedDocRef, error) {
	idx, err := s.views.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]model.RecentlyViewedDocRef, 0, len(idx.Docs))
	for _, ref := range idx.Docs {
		_, err := s.documents.FindByID(ctx, ref.ID, ref.IsDraft)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find document %s: %w", ref.ID, err)
		}
		out = append(out, ref)
	}
	return out, nil
}

func (s *workspaceService) RecentlyViewedProjects(ctx context.Context, user string) ([]model.RecentlyViewedProjectRef, error) {
	idx, err := s.views.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]model.RecentlyViewedProjectRef, 0, len(idx.Projects))
	for _, ref := range idx.Projects {
		_, err := s.projects.FindByID(ctx, ref.ID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find project %d: %w", ref.ID, err)
		}
		out = append(out, ref)
	}
	return out, nil
}

func (s *workspaceService) SearchDocuments(ctx context.Context, idx SearchIndex, req model.SearchRequest) (*model.SearchResponse, error) {
	if idx.Kind == IndexProjects {
		return nil, fmt.Errorf("%w: projects index holds no documents", ErrUnknownIndex)
	}
	filters, err := ParseFilters(req)
	if err != nil {
		return nil, err
	}
	hpp, page, err := paging(req)
	if err != nil {
		return nil, err
	}

	res, err := s.documents.Search(ctx, repository.DocumentQuery{
		Drafts:    idx.Kind == IndexDrafts,
		Text:      strings.TrimSpace(req.Query),
		Filters:   filters,
		Ascending: idx.Ascending,
		Page:      repository.PageQuery{Limit: hpp, Offset: page * hpp},
	})
	if errors.Is(err, repository.ErrInvalidFilter) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSearch, err)
	}
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	hits := res.Items
	if hits == nil {
		hits = []model.Document{}
	}
	return &model.SearchResponse{
		Hits:        hits,
		NbHits:      res.Total,
		Page:        page,
		NbPages:     pages(res.Total, hpp),
		HitsPerPage: hpp,
	}, nil
}

func (s *workspaceService) SearchProjects(ctx context.Context, idx SearchIndex, req model.SearchRequest) (*model.ProjectSearchResponse, error) {
	if idx.Kind != IndexProjects {
		return nil, fmt.Errorf("%w: %s index holds no projects", ErrUnknownIndex, idx.Kind)
	}
	filters, err := ParseFilters(req)
	if err != nil {
		return nil, err
	}
	hpp, page, err := paging(req)
	if err != nil {
		return nil, err
	}

	res, err := s.projects.Search(ctx, repository.ProjectQuery{
		Text:      strings.TrimSpace(req.Query),
		Filters:   filters,
		Ascending: idx.Ascending,
		Page:      repository.PageQuery{Limit: hpp, Offset: page * hpp},
	})
	if errors.Is(err, repository.ErrInvalidFilter) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSearch, err)
	}
	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}

	hits := res.Items
	if hits == nil {
		hits = []model.Project{}
	}
	return &model.ProjectSearchResponse{
		Hits:        hits,
		NbHits:      res.Total,
		Page:        page,
		NbPages:     pages(res.Total, hpp),
		HitsPerPage: hpp,
	}, nil
}

func paging(req model.SearchRequest) (hpp, page int, err error) {
	hpp = req.HitsPerPage
	if hpp <= 0 {
		hpp = DefaultHitsPerPage
	}
	if hpp > MaxHitsPerPage {
		hpp = MaxHitsPerPage
	}
	page = max(req.Page, 0)
	if page > MaxPage {
		return 0, 0, fmt.Errorf("%w: page must not exceed %d", ErrInvalidSearch, MaxPage)
	}
	return hpp, page, nil
}

func pages(total, hpp int) int {
	return (total + hpp - 1) / hpp
}
