package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"semantic-docs-be/internal/dto"
	"semantic-docs-be/internal/pkg/apperr"
	"semantic-docs-be/internal/repository/contract"
	"semantic-docs-be/internal/repository/unitofwork"
	"semantic-docs-be/pkg/embedding"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	snippetLength       = 200
	queryCacheTTL       = 5 * time.Minute
	queryCacheSweep     = 10 * time.Minute
	queryCacheKeyPrefix = "query:"
)

type ISearchService interface {
	Search(ctx context.Context, query string, limit int, maxDistance *float64) ([]*dto.SemanticSearchResponse, error)
}

type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	queryCache        *gocache.Cache
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
) ISearchService {
	return &searchService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		queryCache:        gocache.New(queryCacheTTL, queryCacheSweep),
	}
}

func (c *searchService) Search(ctx context.Context, query string, limit int, maxDistance *float64) ([]*dto.SemanticSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.NewValidation("search query must not be empty")
	}
	if limit < 1 {
		return nil, apperr.NewValidation("limit must be at least 1")
	}

	queryVector, err := c.queryEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DocumentRepository()

	// Both language pools are queried independently; null vectors on either
	// side are excluded by the column predicate.
	primary, err := repo.SearchSimilar(ctx, queryVector, contract.ColumnEmbedding, limit, maxDistance)
	if err != nil {
		return nil, err
	}
	alt, err := repo.SearchSimilar(ctx, queryVector, contract.ColumnEmbeddingAlt, limit, maxDistance)
	if err != nil {
		return nil, err
	}

	merged := mergePools(primary, alt)

	// Best match first. Equal distances keep storage order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Distance < merged[j].Distance
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	results := make([]*dto.SemanticSearchResponse, len(merged))
	for i, scored := range merged {
		results[i] = &dto.SemanticSearchResponse{
			DocumentId: scored.Document.Id,
			FilePath:   scored.Document.FilePath,
			Title:      scored.Document.Title,
			Snippet:    makeSnippet(scored.Document.Content),
			Distance:   scored.Distance,
		}
	}
	return results, nil
}

func (c *searchService) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	cacheKey := queryCacheKeyPrefix + query
	if cached, found := c.queryCache.Get(cacheKey); found {
		return cached.([]float32), nil
	}

	vector, err := c.embeddingProvider.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	c.queryCache.Set(cacheKey, vector, gocache.DefaultExpiration)
	return vector, nil
}

// mergePools deduplicates by document identity, keeping the minimum distance
// (best of either language match).
func mergePools(pools ...[]*contract.ScoredDocument) []*contract.ScoredDocument {
	seen := make(map[uuid.UUID]*contract.ScoredDocument)
	var merged []*contract.ScoredDocument

	for _, pool := range pools {
		for _, scored := range pool {
			existing, ok := seen[scored.Document.Id]
			if !ok {
				copied := &contract.ScoredDocument{
					Document: scored.Document,
					Distance: scored.Distance,
				}
				seen[scored.Document.Id] = copied
				merged = append(merged, copied)
				continue
			}
			if scored.Distance < existing.Distance {
				existing.Distance = scored.Distance
			}
		}
	}
	return merged
}

// makeSnippet returns the first 200 characters of content, ellipsis-suffixed
// when truncated.
func makeSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "..."
}
