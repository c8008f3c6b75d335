// Package viewindex keeps each user's recently viewed documents and
// projects as one JSON object in object storage.
package viewindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hermes/internal/model"
	"hermes/internal/storage"
)

// Limit is how many documents and how many projects an index keeps.
const Limit = 10

// Index is the stored shape of one user's view history, newest first.
type Index struct {
	Docs     []model.RecentlyViewedDocRef     `json:"docs"`
	Projects []model.RecentlyViewedProjectRef `json:"projects"`
}

type Store struct {
	objects storage.Storage
	limit   int

	// Serializes read-modify-write cycles.
	mu sync.Mutex
}

func New(objects storage.Storage) *Store {
	return &Store{objects: objects, limit: Limit}
}

// Key is the object key holding user's index.
func Key(user string) string {
	return "recently-viewed/" + strings.ToLower(user) + ".json"
}

// Load returns user's index. A user with no history gets an empty index.
func (s *Store) Load(ctx context.Context, user string) (Index, error) {
	rc, _, err := s.objects.Get(ctx, Key(user))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return Index{Docs: []model.RecentlyViewedDocRef{}, Projects: []model.RecentlyViewedProjectRef{}}, nil
	}
	if err != nil {
		return Index{}, fmt.Errorf("get view index: %w", err)
	}
	defer rc.Close()

	var idx Index
	if err := json.NewDecoder(rc).Decode(&idx); err != nil {
		return Index{}, fmt.Errorf("decode view index: %w", err)
	}
	if idx.Docs == nil {
		idx.Docs = []model.RecentlyViewedDocRef{}
	}
	if idx.Projects == nil {
		idx.Projects = []model.RecentlyViewedProjectRef{}
	}
	return idx, nil
}

// RecordDoc moves the document to the front of user's index.
func (s *Store) RecordDoc(ctx context.Context, user, id string, isDraft bool, at time.Time) error {
	return s.update(ctx, user, func(idx *Index) {
		docs := make([]model.RecentlyViewedDocRef, 0, len(idx.Docs)+1)
		docs = append(docs, model.RecentlyViewedDocRef{ID: id, IsDraft: isDraft, ViewedTime: at.Unix()})
		for _, d := range idx.Docs {
			if d.ID != id {
				docs = append(docs, d)
			}
		}
		idx.Docs = truncate(docs, s.limit)
	})
}

// RecordProject moves the project to the front of user's index.
func (s *Store) RecordProject(ctx context.Context, user string, id int, at time.Time) error {
	return s.update(ctx, user, func(idx *Index) {
		projects := make([]model.RecentlyViewedProjectRef, 0, len(idx.Projects)+1)
		projects = append(projects, model.RecentlyViewedProjectRef{ID: id, ViewedTime: at.Unix()})
		for _, p := range idx.Projects {
			if p.ID != id {
				projects = append(projects, p)
			}
		}
		idx.Projects = truncate(projects, s.limit)
	})
}

// Put replaces user's index, keeping the given order. Fixtures use it.
func (s *Store) Put(ctx context.Context, user string, idx Index) error {
	return s.update(ctx, user, func(cur *Index) {
		cur.Docs = truncate(idx.Docs, s.limit)
		cur.Projects = truncate(idx.Projects, s.limit)
	})
}

func (s *Store) update(ctx context.Context, user string, mutate func(*Index)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.Load(ctx, user)
	if err != nil {
		return err
	}
	mutate(&idx)

	body, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode view index: %w", err)
	}
	_, err = s.objects.Put(ctx, Key(user), bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put view index: %w", err)
	}
	return nil
}

func truncate[T any](list []T, n int) []T {
	if list == nil {
		return []T{}
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}
