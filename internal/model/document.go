package model

// Document is a Hermes document or draft as returned by the documents,
// drafts and search endpoints.
type Document struct {
	ObjectID     string   `json:"objectID"`
	Title        string   `json:"title"`
	DocType      string   `json:"docType,omitempty"`
	DocNumber    string   `json:"docNumber,omitempty"`
	Product      string   `json:"product,omitempty"`
	Status       string   `json:"status,omitempty"`
	Owners       []string `json:"owners,omitempty"`
	Approvers    []string `json:"approvers,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	IsDraft      bool     `json:"isDraft,omitempty"`
	CreatedTime  int64    `json:"createdTime,omitempty"`
	ModifiedTime int64    `json:"modifiedTime,omitempty"`

	// ModifiedAgo is derived for display ("Modified 3 days ago") and never
	// sent by the backend.
	ModifiedAgo string `json:"modifiedAgo,omitempty"`
}

// Identity returns the document's first owner, the person whose record a
// document list needs in order to render.
func (d *Document) Identity() string {
	if d == nil || len(d.Owners) == 0 {
		return ""
	}
	return d.Owners[0]
}

// RelatedDocument is a Hermes document attached to another document or a
// project as a related resource.
type RelatedDocument struct {
	GoogleFileID   string   `json:"googleFileID"`
	Title          string   `json:"title"`
	DocumentType   string   `json:"documentType,omitempty"`
	DocumentNumber string   `json:"documentNumber,omitempty"`
	Owners         []string `json:"owners,omitempty"`
	Product        string   `json:"product,omitempty"`
	Status         string   `json:"status,omitempty"`
	SortOrder      int      `json:"sortOrder"`
}

// Identity returns the related document's first owner.
func (d *RelatedDocument) Identity() string {
	if d == nil || len(d.Owners) == 0 {
		return ""
	}
	return d.Owners[0]
}
