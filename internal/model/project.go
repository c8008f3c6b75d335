package model

// Project groups related documents and external resources.
type Project struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Description  string   `json:"description,omitempty"`
	Creator      string   `json:"creator,omitempty"`
	JiraIssueID  string   `json:"jiraIssueID,omitempty"`
	Products     []string `json:"products,omitempty"`
	CreatedTime  int64    `json:"createdTime,omitempty"`
	ModifiedTime int64    `json:"modifiedTime,omitempty"`
}
