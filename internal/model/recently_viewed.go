package model

// RecentlyViewedDocRef is one entry of /me/recently-viewed-docs.
// ViewedTime is a Unix timestamp in seconds.
type RecentlyViewedDocRef struct {
	ID         string `json:"id"`
	IsDraft    bool   `json:"isDraft"`
	ViewedTime int64  `json:"viewedTime"`
}

// RecentlyViewedProjectRef is one entry of /me/recently-viewed-projects.
type RecentlyViewedProjectRef struct {
	ID         int   `json:"id"`
	ViewedTime int64 `json:"viewedTime"`
}
