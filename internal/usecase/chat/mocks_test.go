package chat

import (
	"context"

	"github.com/finwise/chatbot-backend/internal/entity"
)

type mockKnowledgeRepo struct {
	docs        []entity.KnowledgeDoc
	err         error
	searchCalls int
}

func (m *mockKnowledgeRepo) SearchByKeyword(_ context.Context, _ string, _ int) ([]entity.KnowledgeDoc, error) {
	m.searchCalls++
	return m.docs, m.err
}

type mockVectorConn struct {
	configured  bool
	results     []string
	err         error
	searchCalls int
}

func (m *mockVectorConn) IsConfigured() bool {
	return m.configured
}

func (m *mockVectorConn) SearchSimilar(_ context.Context, _ string, _ int) ([]string, error) {
	m.searchCalls++
	return m.results, m.err
}

type mockCompletionConn struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (m *mockCompletionConn) Complete(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.answer, m.err
}

type mockChatLogRepo struct {
	created   []*entity.ChatLog
	createErr error
	logs      []entity.ChatLog
	getErr    error
}

func (m *mockChatLogRepo) CreateChatLog(_ context.Context, log *entity.ChatLog) error {
	m.created = append(m.created, log)
	return m.createErr
}

func (m *mockChatLogRepo) GetChatLogsByUserID(_ context.Context, _ int64) ([]entity.ChatLog, error) {
	return m.logs, m.getErr
}
