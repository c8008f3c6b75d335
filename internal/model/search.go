package model

// SearchRequest is the body of POST /search/{index}. FacetFilters and
// Filters are "key:value" constraints that are ANDed together; Filters
// joins them with " AND " in a single string.
type SearchRequest struct {
	Query        string   `json:"query"`
	Page         int      `json:"page"`
	HitsPerPage  int      `json:"hitsPerPage"`
	FacetFilters []string `json:"facetFilters,omitempty"`
	Filters      string   `json:"filters,omitempty"`
	Facets       []string `json:"facets,omitempty"`
}

// SearchResponse mirrors the Algolia response shape the UI was built on.
type SearchResponse struct {
	Hits        []Document                `json:"hits"`
	NbHits      int                       `json:"nbHits"`
	Page        int                       `json:"page"`
	NbPages     int                       `json:"nbPages"`
	HitsPerPage int                       `json:"hitsPerPage"`
	Facets      map[string]map[string]int `json:"facets,omitempty"`
}

// ProjectSearchResponse is the search response of the projects index.
type ProjectSearchResponse struct {
	Hits        []Project `json:"hits"`
	NbHits      int       `json:"nbHits"`
	Page        int       `json:"page"`
	NbPages     int       `json:"nbPages"`
	HitsPerPage int       `json:"hitsPerPage"`
}
