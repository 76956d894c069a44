package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the domain view of an imported file. A nil vector means the
// embedding has not been generated for that language.
type Document struct {
	Id           uuid.UUID
	FilePath     string
	Title        *string
	Content      string
	ContentHash  string
	Embedding    []float32
	EmbeddingAlt []float32
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
