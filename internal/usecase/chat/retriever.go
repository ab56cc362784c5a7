package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/finwise/chatbot-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SourceRetriever fuses keyword search over the knowledge base with the
// optional vector-similarity service into one ranked, deduplicated list.
type SourceRetriever struct {
	knowledgeRepo repository.KnowledgeRepository
	vectorConn    VectorConnector
	keywordCache  *gocache.Cache
	vectorTimeout time.Duration
	logger        *zap.Logger
}

func NewSourceRetriever(
	knowledgeRepo repository.KnowledgeRepository,
	vectorConn VectorConnector,
	cacheTTL time.Duration,
	vectorTimeout time.Duration,
	logger *zap.Logger,
) *SourceRetriever {
	return &SourceRetriever{
		knowledgeRepo: knowledgeRepo,
		vectorConn:    vectorConn,
		keywordCache:  gocache.New(cacheTTL, 2*cacheTTL),
		vectorTimeout: vectorTimeout,
		logger:        logger,
	}
}

// Retrieve returns up to topK context snippets for the query. The keyword
// source is required and its failure propagates; the vector source is
// best-effort, bounded by a timeout, and its failure degrades to zero results.
func (r *SourceRetriever) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	keywordResults, err := r.keywordResults(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	sources := make([]string, 0, len(keywordResults))
	sources = append(sources, keywordResults...)

	if r.vectorConn.IsConfigured() {
		vectorCtx, cancel := context.WithTimeout(ctx, r.vectorTimeout)
		vectorResults, err := r.vectorConn.SearchSimilar(vectorCtx, query, topK)
		cancel()
		if err != nil {
			ctxzap.Warn(ctx, "vector search failed, continuing with keyword results only",
				zap.Error(err),
			)
		} else {
			sources = append(sources, vectorResults...)
		}
	} else {
		ctxzap.Debug(ctx, "vector service not configured, skipping vector search")
	}

	return fuseSources(sources, topK), nil
}

// keywordResults fetches document contents for the query, caching results
// per query text for a short TTL to spare the database on repeated questions.
func (r *SourceRetriever) keywordResults(ctx context.Context, query string, topK int) ([]string, error) {
	cacheKey := fmt.Sprintf("%d:%s", topK, query)
	if cached, found := r.keywordCache.Get(cacheKey); found {
		ctxzap.Debug(ctx, "keyword search cache hit")
		return cached.([]string), nil
	}

	docs, err := r.knowledgeRepo.SearchByKeyword(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}

	r.keywordCache.Set(cacheKey, contents, gocache.DefaultExpiration)
	return contents, nil
}

// fuseSources removes exact-duplicate entries keeping the first occurrence,
// then truncates to topK. An empty result is valid.
func fuseSources(sources []string, topK int) []string {
	seen := make(map[string]struct{}, len(sources))
	fused := make([]string, 0, len(sources))

	for _, src := range sources {
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		fused = append(fused, src)
		if len(fused) == topK {
			break
		}
	}

	return fused
}
