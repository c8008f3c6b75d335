package hermesapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"hermes/internal/model"
)

// Person looks up a single directory entry by email.
// An empty result is reported as ErrNotFound.
func (c *Client) Person(ctx context.Context, email string) (*model.Person, error) {
	q := url.Values{}
	q.Set("emails", email)

	var people []model.Person
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL(q, "person"), nil, &people); err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, fmt.Errorf("person %s: %w", email, ErrNotFound)
	}
	return &people[0], nil
}

type groupsRequest struct {
	Query string `json:"query"`
}

// Groups searches directory groups. The groups API has no single-record
// lookup, so callers query by email and pick matches out of the result.
func (c *Client) Groups(ctx context.Context, query string) ([]model.Group, error) {
	var groups []model.Group
	err := c.doJSON(ctx, http.MethodPost, c.apiURL(nil, "groups"), groupsRequest{Query: query}, &groups)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// RecentlyViewedDocs lists the signed-in user's recently viewed documents.
func (c *Client) RecentlyViewedDocs(ctx context.Context) ([]model.RecentlyViewedDocRef, error) {
	var refs []model.RecentlyViewedDocRef
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL(nil, "me", "recently-viewed-docs"), nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// RecentlyViewedProjects lists the signed-in user's recently viewed projects.
func (c *Client) RecentlyViewedProjects(ctx context.Context) ([]model.RecentlyViewedProjectRef, error) {
	var refs []model.RecentlyViewedProjectRef
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL(nil, "me", "recently-viewed-projects"), nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Document fetches a published document.
func (c *Client) Document(ctx context.Context, id string) (*model.Document, error) {
	return c.document(ctx, "documents", id)
}

// Draft fetches a draft document.
func (c *Client) Draft(ctx context.Context, id string) (*model.Document, error) {
	return c.document(ctx, "drafts", id)
}

func (c *Client) document(ctx context.Context, endpoint, id string) (*model.Document, error) {
	var doc model.Document
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL(nil, endpoint, id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Project fetches a project by ID.
func (c *Client) Project(ctx context.Context, id int) (*model.Project, error) {
	var p model.Project
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL(nil, "projects", strconv.Itoa(id)), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Search runs a query against one of the backend's search indexes.
func (c *Client) Search(ctx context.Context, index string, req model.SearchRequest) (*model.SearchResponse, error) {
	var res model.SearchResponse
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL(nil, "search", index), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
