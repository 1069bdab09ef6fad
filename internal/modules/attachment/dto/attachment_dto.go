package dto

import (
	"github.com/google/uuid"
)

type UploadAttachmentResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	FileType string    `json:"fileType"`
	Size     int64     `json:"size"`
}
