package mapper

import (
	"time"

	"semantic-docs-be/internal/entity"
	"semantic-docs-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:           d.Id,
		FilePath:     d.FilePath,
		Title:        d.Title,
		Content:      d.Content,
		ContentHash:  d.ContentHash,
		Embedding:    vectorToSlice(d.Embedding),
		EmbeddingAlt: vectorToSlice(d.EmbeddingAlt),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:           d.Id,
		FilePath:     d.FilePath,
		Title:        d.Title,
		Content:      d.Content,
		ContentHash:  d.ContentHash,
		Embedding:    sliceToVector(d.Embedding),
		EmbeddingAlt: sliceToVector(d.EmbeddingAlt),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func vectorToSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

func sliceToVector(s []float32) *pgvector.Vector {
	if s == nil {
		return nil
	}
	v := pgvector.NewVector(s)
	return &v
}
