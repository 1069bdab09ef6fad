package dto

type SearchQuery struct {
	Q     string `form:"q" binding:"required,min=1,max=200"`
	Limit int64  `form:"limit" binding:"omitempty,min=1,max=50"`
}

type PostHit struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	CreatedAt  int64  `json:"createdAt"`
}

type NoticeHit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	PublishedAt int64  `json:"publishedAt"`
}

type SearchResponse struct {
	Query   string      `json:"query"`
	Posts   []PostHit   `json:"posts"`
	Notices []NoticeHit `json:"notices"`
}
