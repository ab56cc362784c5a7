package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finwise/chatbot-backend/internal/entity"
	"go.uber.org/zap"
)

func docsWithContent(contents ...string) []entity.KnowledgeDoc {
	docs := make([]entity.KnowledgeDoc, 0, len(contents))
	for _, c := range contents {
		docs = append(docs, entity.KnowledgeDoc{Content: c})
	}
	return docs
}

func newTestRetriever(repo *mockKnowledgeRepo, vec *mockVectorConn) *SourceRetriever {
	return NewSourceRetriever(repo, vec, time.Minute, time.Second, zap.NewNop())
}

func TestRetrieve_FusesAndDeduplicates(t *testing.T) {
	repo := &mockKnowledgeRepo{docs: docsWithContent("doc A", "doc A", "doc B")}
	vec := &mockVectorConn{configured: true, results: []string{"doc B", "doc C"}}
	r := newTestRetriever(repo, vec)

	sources, err := r.Retrieve(context.Background(), "etf basics", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"doc A", "doc B", "doc C"}
	if len(sources) != len(want) {
		t.Fatalf("expected %v, got %v", want, sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], sources[i])
		}
	}
}

func TestRetrieve_TruncatesToTopK(t *testing.T) {
	repo := &mockKnowledgeRepo{docs: docsWithContent("a", "b", "c")}
	vec := &mockVectorConn{configured: true, results: []string{"d", "e"}}
	r := newTestRetriever(repo, vec)

	sources, err := r.Retrieve(context.Background(), "bonds", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Errorf("expected 2 sources, got %v", sources)
	}
}

func TestRetrieve_KeywordFailurePropagates(t *testing.T) {
	repo := &mockKnowledgeRepo{err: errors.New("connection refused")}
	vec := &mockVectorConn{configured: true, results: []string{"doc"}}
	r := newTestRetriever(repo, vec)

	_, err := r.Retrieve(context.Background(), "stocks", 3)
	if err == nil {
		t.Fatal("expected error from keyword search")
	}
	if vec.searchCalls != 0 {
		t.Error("vector search should not run when keyword search fails")
	}
}

func TestRetrieve_VectorFailureDegradesToKeywordOnly(t *testing.T) {
	repo := &mockKnowledgeRepo{docs: docsWithContent("doc A")}
	vec := &mockVectorConn{configured: true, err: errors.New("timeout")}
	r := newTestRetriever(repo, vec)

	sources, err := r.Retrieve(context.Background(), "funds", 3)
	if err != nil {
		t.Fatalf("vector failure should not surface as error, got %v", err)
	}
	if len(sources) != 1 || sources[0] != "doc A" {
		t.Errorf("expected keyword results only, got %v", sources)
	}
}

func TestRetrieve_SkipsVectorWhenNotConfigured(t *testing.T) {
	repo := &mockKnowledgeRepo{docs: docsWithContent("doc A")}
	vec := &mockVectorConn{configured: false, results: []string{"doc B"}}
	r := newTestRetriever(repo, vec)

	sources, err := r.Retrieve(context.Background(), "savings", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec.searchCalls != 0 {
		t.Error("vector search should not be invoked when unconfigured")
	}
	if len(sources) != 1 || sources[0] != "doc A" {
		t.Errorf("expected keyword results only, got %v", sources)
	}
}

func TestRetrieve_EmptyResultsAreValid(t *testing.T) {
	repo := &mockKnowledgeRepo{}
	vec := &mockVectorConn{configured: false}
	r := newTestRetriever(repo, vec)

	sources, err := r.Retrieve(context.Background(), "obscure topic", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected no sources, got %v", sources)
	}
}

func TestRetrieve_KeywordResultsCached(t *testing.T) {
	repo := &mockKnowledgeRepo{docs: docsWithContent("doc A")}
	vec := &mockVectorConn{configured: false}
	r := newTestRetriever(repo, vec)

	for i := 0; i < 3; i++ {
		if _, err := r.Retrieve(context.Background(), "compound interest", 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if repo.searchCalls != 1 {
		t.Errorf("expected 1 repository call due to caching, got %d", repo.searchCalls)
	}

	// A different query misses the cache
	if _, err := r.Retrieve(context.Background(), "inflation", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.searchCalls != 2 {
		t.Errorf("expected 2 repository calls, got %d", repo.searchCalls)
	}
}
