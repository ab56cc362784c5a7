package repository

import (
	"context"
	"fmt"

	"github.com/finwise/chatbot-backend/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KnowledgeRepository defines the interface for knowledge base lookups
type KnowledgeRepository interface {
	SearchByKeyword(ctx context.Context, keyword string, limit int) ([]entity.KnowledgeDoc, error)
}

var _ KnowledgeRepository = &KnowledgePostgres{}

// KnowledgePostgres implements KnowledgeRepository using PostgreSQL
type KnowledgePostgres struct {
	db *pgxpool.Pool
}

func NewKnowledgePostgres(db *pgxpool.Pool) *KnowledgePostgres {
	return &KnowledgePostgres{db: db}
}

const searchByKeywordQuery = `
SELECT id, title, content, tags, category, relevance_score, active, created_at, updated_at
FROM knowledge_docs
WHERE active = TRUE
  AND (title ILIKE '%' || $1 || '%'
    OR content ILIKE '%' || $1 || '%'
    OR tags ILIKE '%' || $1 || '%')
ORDER BY relevance_score DESC
LIMIT $2`

// SearchByKeyword returns up to limit active documents whose title, content
// or tags contain the keyword, best relevance first.
func (r *KnowledgePostgres) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]entity.KnowledgeDoc, error) {
	rows, err := r.db.Query(ctx, searchByKeywordQuery, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("search knowledge docs: %w", err)
	}
	defer rows.Close()

	var docs []entity.KnowledgeDoc
	for rows.Next() {
		var doc entity.KnowledgeDoc
		if err := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Content,
			&doc.Tags,
			&doc.Category,
			&doc.RelevanceScore,
			&doc.Active,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan knowledge doc: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge docs: %w", err)
	}

	return docs, nil
}
