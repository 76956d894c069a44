package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Document holds one imported markdown file. Embedding and EmbeddingAlt are
// independently nullable; both declare the same dimensionality.
type Document struct {
	Id           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FilePath     string           `gorm:"type:varchar(512);not null;uniqueIndex"`
	Title        *string          `gorm:"type:varchar(255)"`
	Content      string           `gorm:"type:text"`
	ContentHash  string           `gorm:"type:varchar(64);not null"`
	Embedding    *pgvector.Vector `gorm:"type:vector(768)"`
	EmbeddingAlt *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt    time.Time        `gorm:"autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
