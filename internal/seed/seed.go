// Package seed loads YAML fixtures into the mock backend's stores.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"hermes/internal/model"
	"hermes/internal/repository"
	"hermes/internal/viewindex"
)

// Fixtures is the root of a fixture file. Timestamps are given either as
// absolute times or as an age relative to when the fixtures are applied.
type Fixtures struct {
	People    []repository.PersonRow `yaml:"people"`
	Groups    []Group                `yaml:"groups"`
	Documents []Document             `yaml:"documents"`
	Projects  []Project              `yaml:"projects"`
	Views     map[string]Views       `yaml:"views"`
}

type Group struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type Stamp struct {
	At  time.Time     `yaml:"at"`
	Ago time.Duration `yaml:"ago"`
}

func (s Stamp) resolve(now time.Time) time.Time {
	if !s.At.IsZero() {
		return s.At
	}
	return now.Add(-s.Ago)
}

type Document struct {
	ID           string   `yaml:"id"`
	Draft        bool     `yaml:"draft"`
	Title        string   `yaml:"title"`
	DocType      string   `yaml:"docType"`
	DocNumber    string   `yaml:"docNumber"`
	Product      string   `yaml:"product"`
	Status       string   `yaml:"status"`
	Summary      string   `yaml:"summary"`
	Owners       []string `yaml:"owners"`
	Approvers    []string `yaml:"approvers"`
	Contributors []string `yaml:"contributors"`
	Created      Stamp    `yaml:"created"`
	Modified     Stamp    `yaml:"modified"`
}

type Project struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Status      string   `yaml:"status"`
	Description string   `yaml:"description"`
	Creator     string   `yaml:"creator"`
	JiraIssueID string   `yaml:"jiraIssueID"`
	Products    []string `yaml:"products"`
	Created     Stamp    `yaml:"created"`
	Modified    Stamp    `yaml:"modified"`
}

// Views is one user's view history in any order.
type Views struct {
	Docs []struct {
		ID     string `yaml:"id"`
		Draft  bool   `yaml:"draft"`
		Viewed Stamp  `yaml:"viewed"`
	} `yaml:"docs"`
	Projects []struct {
		ID     int   `yaml:"id"`
		Viewed Stamp `yaml:"viewed"`
	} `yaml:"projects"`
}

// Load decodes fixtures from r. Unknown keys are rejected.
func Load(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads fixtures from path.
func LoadFile(path string) (*Fixtures, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Load(bytes.NewReader(b))
}

func (f *Fixtures) validate() error {
	for i, p := range f.People {
		if p.Email == "" {
			return fmt.Errorf("people[%d]: email is required", i)
		}
	}
	for i, g := range f.Groups {
		if g.Email == "" {
			return fmt.Errorf("groups[%d]: email is required", i)
		}
	}
	for i, d := range f.Documents {
		if d.ID == "" {
			return fmt.Errorf("documents[%d]: id is required", i)
		}
	}
	for i, p := range f.Projects {
		if p.ID <= 0 {
			return fmt.Errorf("projects[%d]: id must be positive", i)
		}
	}
	return nil
}

// Seeder writes fixtures through the mock backend's repositories.
type Seeder struct {
	Directory repository.DirectoryRepository
	Documents repository.DocumentRepository
	Projects  repository.ProjectRepository
	Views     *viewindex.Store
	Log       *zap.Logger

	// Now anchors relative stamps. Defaults to time.Now.
	Now func() time.Time
}

// Apply upserts every fixture. Applying the same fixtures twice leaves the
// stores unchanged apart from relative timestamps.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) error {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	for _, p := range f.People {
		if err := s.Directory.UpsertPerson(ctx, p); err != nil {
			return fmt.Errorf("seed person %s: %w", p.Email, err)
		}
	}
	for _, g := range f.Groups {
		if err := s.Directory.UpsertGroup(ctx, model.Group{Email: g.Email, Name: g.Name}); err != nil {
			return fmt.Errorf("seed group %s: %w", g.Email, err)
		}
	}
	for _, d := range f.Documents {
		doc := &model.Document{
			ObjectID:     d.ID,
			IsDraft:      d.Draft,
			Title:        d.Title,
			DocType:      d.DocType,
			DocNumber:    d.DocNumber,
			Product:      d.Product,
			Status:       d.Status,
			Summary:      d.Summary,
			Owners:       d.Owners,
			Approvers:    d.Approvers,
			Contributors: d.Contributors,
			CreatedTime:  d.Created.resolve(now).Unix(),
			ModifiedTime: d.Modified.resolve(now).Unix(),
		}
		if err := s.Documents.Upsert(ctx, doc); err != nil {
			return fmt.Errorf("seed document %s: %w", d.ID, err)
		}
	}
	for _, p := range f.Projects {
		proj := &model.Project{
			ID:           p.ID,
			Title:        p.Title,
			Status:       p.Status,
			Description:  p.Description,
			Creator:      p.Creator,
			JiraIssueID:  p.JiraIssueID,
			Products:     p.Products,
			CreatedTime:  p.Created.resolve(now).Unix(),
			ModifiedTime: p.Modified.resolve(now).Unix(),
		}
		if err := s.Projects.Upsert(ctx, proj); err != nil {
			return fmt.Errorf("seed project %d: %w", p.ID, err)
		}
	}
	for user, v := range f.Views {
		if err := s.Views.Put(ctx, user, v.index(now)); err != nil {
			return fmt.Errorf("seed views for %s: %w", user, err)
		}
	}

	if s.Log != nil {
		s.Log.Info("fixtures_seeded",
			zap.Int("people", len(f.People)),
			zap.Int("groups", len(f.Groups)),
			zap.Int("documents", len(f.Documents)),
			zap.Int("projects", len(f.Projects)),
			zap.Int("users", len(f.Views)),
		)
	}
	return nil
}

func (v Views) index(now time.Time) viewindex.Index {
	idx := viewindex.Index{
		Docs:     make([]model.RecentlyViewedDocRef, 0, len(v.Docs)),
		Projects: make([]model.RecentlyViewedProjectRef, 0, len(v.Projects)),
	}
	for _, d := range v.Docs {
		idx.Docs = append(idx.Docs, model.RecentlyViewedDocRef{ID: d.ID, IsDraft: d.Draft, ViewedTime: d.Viewed.resolve(now).Unix()})
	}
	for _, p := range v.Projects {
		idx.Projects = append(idx.Projects, model.RecentlyViewedProjectRef{ID: p.ID, ViewedTime: p.Viewed.resolve(now).Unix()})
	}
	sort.SliceStable(idx.Docs, func(i, j int) bool { return idx.Docs[i].ViewedTime > idx.Docs[j].ViewedTime })
	sort.SliceStable(idx.Projects, func(i, j int) bool { return idx.Projects[i].ViewedTime > idx.Projects[j].ViewedTime })
	return idx
}
