package implementation

import (
	"context"
	"errors"
	"fmt"

	"semantic-docs-be/internal/entity"
	"semantic-docs-be/internal/mapper"
	"semantic-docs-be/internal/model"
	"semantic-docs-be/internal/repository/contract"
	"semantic-docs-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) DeleteByFilePath(ctx context.Context, filePath string) (bool, error) {
	res := r.db.WithContext(ctx).Where("file_path = ?", filePath).Delete(&model.Document{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var m model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Document{}).Count(&count).Error
	return count, err
}

func (r *DocumentRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, column string, limit int, maxDistance *float64) ([]*contract.ScoredDocument, error) {
	if column != contract.ColumnEmbedding && column != contract.ColumnEmbeddingAlt {
		return nil, fmt.Errorf("unknown vector column: %s", column)
	}
	if limit <= 0 {
		limit = 5
	}

	// pgvector cosine distance: column <=> query_vector (lower = more similar).
	// Null vectors never match the operator, but the explicit predicate keeps
	// rows without this language variant out of the scan.
	type result struct {
		model.Document
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("documents").
		Select(fmt.Sprintf("documents.*, %s <=> ? AS distance", column), queryVector).
		Where(fmt.Sprintf("%s IS NOT NULL", column))

	if maxDistance != nil {
		query = query.Where(fmt.Sprintf("%s <=> ? < ?", column), queryVector, *maxDistance)
	}

	err := query.
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDocument, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDocument{
			Document: r.mapper.ToEntity(&res.Document),
			Distance: res.Distance,
		}
	}
	return scored, nil
}
