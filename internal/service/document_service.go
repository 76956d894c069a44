package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"semantic-docs-be/internal/dto"
	"semantic-docs-be/internal/entity"
	"semantic-docs-be/internal/pkg/apperr"
	"semantic-docs-be/internal/pkg/logger"
	"semantic-docs-be/internal/repository/specification"
	"semantic-docs-be/internal/repository/unitofwork"
	"semantic-docs-be/pkg/embedding"
	"semantic-docs-be/pkg/events"

	"github.com/google/uuid"
)

const (
	ImportStatusAdded   = "added"
	ImportStatusUpdated = "updated"
	ImportStatusSkipped = "skipped"
)

// Translator is the slice of the translation client the importer needs.
type Translator interface {
	Translate(ctx context.Context, text, to, from string) (string, error)
}

// LanguageConfig names the two language variants a document can carry.
// Importing with the translated code attaches the alt vector to an existing
// primary document instead of creating one.
type LanguageConfig struct {
	Primary    string
	Translated string
}

type IDocumentService interface {
	ImportAll(ctx context.Context, req *dto.ImportAllRequest) (*dto.ImportResultResponse, error)
	ImportFile(ctx context.Context, req *dto.ImportFileRequest) (*dto.ImportFileResponse, error)
	Delete(ctx context.Context, filePath string) (*dto.DeleteDocumentResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	translator        Translator
	publisherService  IPublisherService
	languages         LanguageConfig
	log               logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	translator Translator,
	publisherService IPublisherService,
	languages LanguageConfig,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		translator:        translator,
		publisherService:  publisherService,
		languages:         languages,
		log:               log,
	}
}

func (c *documentService) ImportAll(ctx context.Context, req *dto.ImportAllRequest) (*dto.ImportResultResponse, error) {
	if err := c.validateLanguage(req.Language); err != nil {
		return nil, err
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		return nil, apperr.NewNotFound("directory", req.Path)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	result := &dto.ImportResultResponse{Errors: []string{}}

	walkErr := filepath.WalkDir(req.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}

		relPath, err := filepath.Rel(req.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		status, err := c.importOne(ctx, uow, path, relPath, req.Language, false)
		if err != nil {
			// One bad file never blocks the batch.
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", relPath, err))
			return nil
		}

		switch status {
		case ImportStatusAdded:
			result.Added++
		case ImportStatusUpdated:
			result.Updated++
		case ImportStatusSkipped:
			result.Skipped++
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	c.publishEvent(ctx, events.DocumentImported, map[string]interface{}{
		"root":     req.Path,
		"language": req.Language,
		"added":    result.Added,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
		"failed":   len(result.Errors),
	})

	return result, nil
}

func (c *documentService) ImportFile(ctx context.Context, req *dto.ImportFileRequest) (*dto.ImportFileResponse, error) {
	if err := c.validateLanguage(req.Language); err != nil {
		return nil, err
	}

	if _, err := os.Stat(req.Path); err != nil {
		return nil, apperr.NewNotFound("file", req.Path)
	}

	relPath := filepath.Base(req.Path)
	if req.RootPath != "" {
		rel, err := filepath.Rel(req.RootPath, req.Path)
		if err != nil {
			return nil, apperr.NewValidation("path %s is not under root %s", req.Path, req.RootPath)
		}
		relPath = rel
	}
	relPath = filepath.ToSlash(relPath)

	uow := c.uowFactory.NewUnitOfWork(ctx)
	status, err := c.importOne(ctx, uow, req.Path, relPath, req.Language, req.TranslateVariant)
	if err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.DocumentImported, map[string]interface{}{
		"file_path": relPath,
		"language":  req.Language,
		"status":    status,
	})

	return &dto.ImportFileResponse{FilePath: relPath, Status: status}, nil
}

func (c *documentService) Delete(ctx context.Context, filePath string) (*dto.DeleteDocumentResponse, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, apperr.NewValidation("file path must not be empty")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	deleted, err := uow.DocumentRepository().DeleteByFilePath(ctx, filePath)
	if err != nil {
		return nil, err
	}

	if deleted {
		c.publishEvent(ctx, events.DocumentDeleted, map[string]interface{}{
			"file_path": filePath,
		})
	}

	return &dto.DeleteDocumentResponse{FilePath: filePath, Deleted: deleted}, nil
}

// importOne drives one file through change detection, embedding and persistence.
// translateVariant additionally computes the alt vector during a primary import;
// the translated text itself is discarded after embedding.
func (c *documentService) importOne(ctx context.Context, uow unitofwork.UnitOfWork, fullPath, relPath, language string, translateVariant bool) (string, error) {
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	content := string(raw)
	hash := hashContent(content)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByFilePath{FilePath: relPath})
	if err != nil {
		return "", err
	}

	if language == c.languages.Translated {
		return c.attachTranslatedEmbedding(ctx, uow, doc, relPath, content, hash)
	}

	if doc == nil {
		doc = &entity.Document{
			Id:          uuid.New(),
			FilePath:    relPath,
			Title:       extractTitle(content),
			Content:     content,
			ContentHash: hash,
			CreatedAt:   time.Now(),
		}
		if err := c.embedPrimary(ctx, doc, translateVariant); err != nil {
			return "", err
		}
		if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
			return "", err
		}
		return ImportStatusAdded, nil
	}

	// Unchanged fingerprint: never re-embed.
	if doc.ContentHash == hash {
		return ImportStatusSkipped, nil
	}

	doc.Title = extractTitle(content)
	doc.Content = content
	doc.ContentHash = hash
	if err := c.embedPrimary(ctx, doc, translateVariant); err != nil {
		return "", err
	}
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return "", err
	}
	return ImportStatusUpdated, nil
}

func (c *documentService) embedPrimary(ctx context.Context, doc *entity.Document, translateVariant bool) error {
	vector, err := c.embeddingProvider.Generate(ctx, doc.Content)
	if err != nil {
		return err
	}
	doc.Embedding = vector

	if !translateVariant {
		return nil
	}
	altVector, err := c.translateAndEmbed(ctx, doc.Content)
	if err != nil {
		return err
	}
	doc.EmbeddingAlt = altVector
	return nil
}

// attachTranslatedEmbedding requires an existing primary document; translated
// documents never exist on their own.
func (c *documentService) attachTranslatedEmbedding(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, relPath, content, hash string) (string, error) {
	if doc == nil {
		return "", apperr.NewNotFound("document", relPath)
	}

	if doc.ContentHash == hash && doc.EmbeddingAlt != nil {
		return ImportStatusSkipped, nil
	}

	altVector, err := c.translateAndEmbed(ctx, content)
	if err != nil {
		return "", err
	}

	doc.EmbeddingAlt = altVector
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return "", err
	}
	return ImportStatusUpdated, nil
}

func (c *documentService) translateAndEmbed(ctx context.Context, content string) ([]float32, error) {
	translated, err := c.translator.Translate(ctx, content, c.languages.Translated, c.languages.Primary)
	if err != nil {
		return nil, err
	}
	// Only the vector survives; translated text is never persisted.
	return c.embeddingProvider.Generate(ctx, translated)
}

func (c *documentService) validateLanguage(language string) error {
	if language != c.languages.Primary && language != c.languages.Translated {
		return apperr.NewValidation("unsupported language %q (expected %q or %q)",
			language, c.languages.Primary, c.languages.Translated)
	}
	return nil
}

func (c *documentService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if c.publisherService == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Audit trail is auxiliary; a publish failure never fails the operation.
	if err := c.publisherService.Publish(ctx, evt); err != nil {
		if c.log != nil {
			c.log.Warn("document", "Failed to publish event", map[string]interface{}{
				"error": err.Error(),
				"type":  eventType,
			})
		}
	}
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// extractTitle returns the text of the first level-1 heading line, or nil.
func extractTitle(content string) *string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "# ") {
			title := strings.TrimSpace(line[2:])
			if title == "" {
				return nil
			}
			return &title
		}
	}
	return nil
}
