package repository

import (
	"context"

	"hermes/internal/model"
)

// PersonRow is a directory person as stored.
type PersonRow struct {
	Email       string `yaml:"email"`
	GivenName   string `yaml:"givenName"`
	FamilyName  string `yaml:"familyName"`
	DisplayName string `yaml:"displayName"`
	PhotoURL    string `yaml:"photo"`
}

// Person renders the row in the People API shape.
func (p PersonRow) Person() model.Person {
	out := model.Person{
		ResourceName:   "people/" + p.Email,
		Names:          []model.PersonName{{DisplayName: p.DisplayName, GivenName: p.GivenName, FamilyName: p.FamilyName}},
		EmailAddresses: []model.PersonEmail{{Value: p.Email}},
	}
	if p.PhotoURL != "" {
		out.Photos = []model.PersonPhoto{{URL: p.PhotoURL}}
	}
	return out
}

// DirectoryRepository stores people and groups.
type DirectoryRepository interface {
	// FindPerson returns the person with the given email, or ErrNotFound.
	FindPerson(ctx context.Context, email string) (*PersonRow, error)

	// SearchGroups returns groups whose email or name starts with query,
	// case-insensitively, ordered by email.
	SearchGroups(ctx context.Context, query string, limit int) ([]model.Group, error)

	UpsertPerson(ctx context.Context, p PersonRow) error
	UpsertGroup(ctx context.Context, g model.Group) error
}
