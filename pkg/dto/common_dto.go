package dto

// UserSummary is the public view of a user embedded in posts, comments,
// queries, submissions and chats. UserID is the external identity id.
type UserSummary struct {
	UserID   string  `json:"userId"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Username *string `json:"username"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type PaginationQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Normalize applies the default page size.
func (p PaginationQuery) Normalize(defaultLimit int) PaginationQuery {
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	return p
}
