package service

import (
	"context"
	"fmt"
	"strings"

	"semantic-docs-be/internal/entity"
	"semantic-docs-be/internal/model"
	"semantic-docs-be/internal/repository/contract"
	"semantic-docs-be/internal/repository/specification"
	"semantic-docs-be/internal/repository/unitofwork"
)

// In-memory doubles behind the repository contracts, so service logic is
// exercised without a database.

type fakeDocumentRepository struct {
	docs        map[string]*entity.Document
	primaryPool []*contract.ScoredDocument
	altPool     []*contract.ScoredDocument
	lastCutoff  map[string]*float64
}

func newFakeDocumentRepository() *fakeDocumentRepository {
	return &fakeDocumentRepository{
		docs:       make(map[string]*entity.Document),
		lastCutoff: make(map[string]*float64),
	}
}

func (f *fakeDocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	if _, exists := f.docs[doc.FilePath]; exists {
		return fmt.Errorf("duplicate key: file_path %s", doc.FilePath)
	}
	stored := *doc
	f.docs[doc.FilePath] = &stored
	return nil
}

func (f *fakeDocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	stored := *doc
	f.docs[doc.FilePath] = &stored
	return nil
}

func (f *fakeDocumentRepository) DeleteByFilePath(ctx context.Context, filePath string) (bool, error) {
	if _, exists := f.docs[filePath]; !exists {
		return false, nil
	}
	delete(f.docs, filePath)
	return true, nil
}

func (f *fakeDocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, s := range specs {
		if byPath, ok := s.(specification.ByFilePath); ok {
			if d, exists := f.docs[byPath.FilePath]; exists {
				found := *d
				return &found, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var all []*entity.Document
	for _, d := range f.docs {
		found := *d
		all = append(all, &found)
	}
	return all, nil
}

func (f *fakeDocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.docs)), nil
}

func (f *fakeDocumentRepository) SearchSimilar(ctx context.Context, embedding []float32, column string, limit int, maxDistance *float64) ([]*contract.ScoredDocument, error) {
	f.lastCutoff[column] = maxDistance

	pool := f.primaryPool
	if column == contract.ColumnEmbeddingAlt {
		pool = f.altPool
	}

	var out []*contract.ScoredDocument
	for _, scored := range pool {
		if maxDistance != nil && !(scored.Distance < *maxDistance) {
			continue
		}
		out = append(out, scored)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeAuditLogRepository struct {
	entries []string
}

func (f *fakeAuditLogRepository) Create(ctx context.Context, eventType string, details map[string]interface{}) error {
	f.entries = append(f.entries, eventType)
	return nil
}

func (f *fakeAuditLogRepository) FindRecent(ctx context.Context, limit int) ([]*model.AuditLog, error) {
	return nil, nil
}

type fakeUnitOfWork struct {
	docs  *fakeDocumentRepository
	audit *fakeAuditLogRepository
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (f *fakeUnitOfWork) Commit() error                   { return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }

func (f *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository {
	return f.docs
}

func (f *fakeUnitOfWork) AuditLogRepository() contract.AuditLogRepository {
	return f.audit
}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{
		uow: &fakeUnitOfWork{
			docs:  newFakeDocumentRepository(),
			audit: &fakeAuditLogRepository{},
		},
	}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func (f *fakeRepositoryFactory) docs() *fakeDocumentRepository {
	return f.uow.docs
}

// fakeEmbedder returns a fixed unit vector and counts calls; prompts
// containing failOn (when non-empty) fail.
type fakeEmbedder struct {
	calls  int
	failOn string
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, fmt.Errorf("embedding backend unavailable")
	}
	return []float32{1, 0, 0}, nil
}

type fakeTranslator struct {
	calls    int
	lastText string
	err      error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, to, from string) (string, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return "", f.err
	}
	return "[" + to + "] " + text, nil
}
