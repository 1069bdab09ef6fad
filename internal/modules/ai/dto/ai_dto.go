package dto

type AskDoubtRequest struct {
	Question string `json:"question"`
}

type AskDoubtResponse struct {
	Answer string `json:"answer"`
}

// AskDoubtError is the body of a failed ask. Details carries the last
// model error; AvailableModels is only filled outside production.
type AskDoubtError struct {
	Error           string   `json:"error"`
	Details         string   `json:"details,omitempty"`
	AvailableModels []string `json:"availableModels,omitempty"`
}
