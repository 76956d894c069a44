package contract

import (
	"context"

	"semantic-docs-be/internal/entity"
	"semantic-docs-be/internal/repository/specification"
)

// Vector columns addressable by similarity search.
const (
	ColumnEmbedding    = "embedding"
	ColumnEmbeddingAlt = "embedding_alt"
)

// ScoredDocument wraps a Document with its cosine distance to the query
// vector (lower = more similar).
type ScoredDocument struct {
	Document *entity.Document
	Distance float64
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	// DeleteByFilePath removes the row physically and reports whether it existed.
	DeleteByFilePath(ctx context.Context, filePath string) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar orders non-null vectors in the given column by cosine
	// distance to the query vector. maxDistance, when set, keeps only rows
	// strictly below the cutoff.
	SearchSimilar(ctx context.Context, embedding []float32, column string, limit int, maxDistance *float64) ([]*ScoredDocument, error)
}
