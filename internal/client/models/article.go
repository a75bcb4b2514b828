package models

import "time"

// Author is the article byline as served by the API.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is immutable once received; the feed controller owns list
// membership.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    *Author   `json:"author,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArticleResponse is one page of articles. HasMore is asserted by the
// server and is not recomputed client-side.
type ArticleResponse struct {
	Data       []Article `json:"data"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	HasMore    bool      `json:"hasMore"`
}
