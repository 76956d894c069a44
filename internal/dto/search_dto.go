package dto

import "github.com/google/uuid"

type SemanticSearchResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	FilePath   string    `json:"file_path"`
	Title      *string   `json:"title"`
	Snippet    string    `json:"snippet"`
	Distance   float64   `json:"distance"`
}
