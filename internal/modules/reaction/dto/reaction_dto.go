package dto

type ToggleLikeRequest struct {
	ReactionType string `json:"reactionType" binding:"omitempty,max=20"`
}

// ToggleLikeResponse reports the state after the toggle and the post's
// current reaction count, re-derived from the stored rows.
type ToggleLikeResponse struct {
	Success bool  `json:"success"`
	Liked   bool  `json:"liked"`
	Likes   int64 `json:"likes"`
}
