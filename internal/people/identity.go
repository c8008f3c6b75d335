package people

import "hermes/internal/model"

// Identifier is anything that names the person or group a caller wants
// rendered: a bare email, or a document whose first owner is of interest.
// Implementations should be comparable (strings, pointers) so that repeated
// inputs can be skipped cheaply.
type Identifier interface {
	Identity() string
}

// Email is a bare identity.
type Email string

func (e Email) Identity() string { return string(e) }

// Emails adapts a list of addresses for MaybeFetch.
func Emails(list ...string) []Identifier {
	out := make([]Identifier, 0, len(list))
	for _, e := range list {
		out = append(out, Email(e))
	}
	return out
}

// Documents adapts documents for MaybeFetch. The returned identifiers point
// into docs, so identical documents are only projected once.
func Documents(docs []model.Document) []Identifier {
	out := make([]Identifier, 0, len(docs))
	for i := range docs {
		out = append(out, &docs[i])
	}
	return out
}
