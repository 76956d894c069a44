package specification

import (
	"gorm.io/gorm"
)

// ByFilePath filters by the unique relative file path.
type ByFilePath struct {
	FilePath string
}

func (s ByFilePath) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_path = ?", s.FilePath)
}

// HasPrimaryEmbedding keeps documents with a generated primary vector.
type HasPrimaryEmbedding struct{}

func (s HasPrimaryEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}

// HasAltEmbedding keeps documents with a generated translated-variant vector.
type HasAltEmbedding struct{}

func (s HasAltEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding_alt IS NOT NULL")
}
