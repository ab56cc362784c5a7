package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finwise/chatbot-backend/internal/entity"
	"go.uber.org/zap"
)

type usecaseFixture struct {
	uc             *ChatUsecase
	knowledgeRepo  *mockKnowledgeRepo
	vectorConn     *mockVectorConn
	completionConn *mockCompletionConn
	chatLogRepo    *mockChatLogRepo
}

func newUsecaseFixture(rateLimit int) *usecaseFixture {
	f := &usecaseFixture{
		knowledgeRepo:  &mockKnowledgeRepo{},
		vectorConn:     &mockVectorConn{},
		completionConn: &mockCompletionConn{answer: "an educational answer"},
		chatLogRepo:    &mockChatLogRepo{},
	}
	logger := zap.NewNop()
	f.uc = NewUsecase(
		NewRateLimiter(rateLimit, logger),
		NewSanitizer(),
		NewSourceRetriever(f.knowledgeRepo, f.vectorConn, time.Minute, time.Second, logger),
		f.completionConn,
		f.chatLogRepo,
		5,
		logger,
	)
	return f
}

func TestProcessMessage_HappyPath(t *testing.T) {
	f := newUsecaseFixture(10)
	f.knowledgeRepo.docs = docsWithContent("doc about ETFs")

	result, err := f.uc.ProcessMessage(context.Background(), 1, "What is an ETF?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answer != "an educational answer" {
		t.Errorf("unexpected answer %q", result.Answer)
	}
	if len(result.Sources) != 1 || result.Sources[0] != "doc about ETFs" {
		t.Errorf("unexpected sources %v", result.Sources)
	}
	if len(f.chatLogRepo.created) != 1 {
		t.Fatalf("expected 1 chat log, got %d", len(f.chatLogRepo.created))
	}

	logged := f.chatLogRepo.created[0]
	if logged.UserID != 1 {
		t.Errorf("logged wrong user: %d", logged.UserID)
	}
	if logged.Query != "What is an ETF?" {
		t.Errorf("logged wrong query: %q", logged.Query)
	}
	if logged.Answer != "an educational answer" {
		t.Errorf("logged wrong answer: %q", logged.Answer)
	}
	if logged.TokensUsed <= 0 {
		t.Errorf("expected positive token estimate, got %d", logged.TokensUsed)
	}
}

func TestProcessMessage_EmptyMessage(t *testing.T) {
	f := newUsecaseFixture(10)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := f.uc.ProcessMessage(context.Background(), 1, msg)
		if !errors.Is(err, entity.ErrEmptyMessage) {
			t.Errorf("message %q: expected ErrEmptyMessage, got %v", msg, err)
		}
	}
	if f.knowledgeRepo.searchCalls != 0 {
		t.Error("retrieval should not run for empty messages")
	}
	if f.completionConn.calls != 0 {
		t.Error("completion should not run for empty messages")
	}
}

func TestProcessMessage_RateLimited(t *testing.T) {
	f := newUsecaseFixture(2)

	for i := 0; i < 2; i++ {
		if _, err := f.uc.ProcessMessage(context.Background(), 1, "What is a stock?"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}

	_, err := f.uc.ProcessMessage(context.Background(), 1, "What is a bond?")
	if !errors.Is(err, entity.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if f.completionConn.calls != 2 {
		t.Errorf("rejected request must not reach completion, got %d calls", f.completionConn.calls)
	}
	if len(f.chatLogRepo.created) != 2 {
		t.Errorf("rejected request must not be logged, got %d logs", len(f.chatLogRepo.created))
	}
}

func TestProcessMessage_PiiStopsPipeline(t *testing.T) {
	f := newUsecaseFixture(10)

	_, err := f.uc.ProcessMessage(context.Background(), 1, "Email me at alice@example.com about AAPL")

	var piiErr *entity.PiiDetectedError
	if !errors.As(err, &piiErr) {
		t.Fatalf("expected PiiDetectedError, got %v", err)
	}
	if piiErr.SanitizedMessage != "Email me at [EMAIL_REDACTED] about AAPL" {
		t.Errorf("unexpected sanitized message %q", piiErr.SanitizedMessage)
	}
	if len(piiErr.DetectedKinds) != 1 || piiErr.DetectedKinds[0] != entity.PiiKindEmail {
		t.Errorf("unexpected kinds %v", piiErr.DetectedKinds)
	}

	if f.knowledgeRepo.searchCalls != 0 {
		t.Error("retrieval must never see a message containing PII")
	}
	if f.completionConn.calls != 0 {
		t.Error("completion must never see a message containing PII")
	}
	if len(f.chatLogRepo.created) != 0 {
		t.Error("messages containing PII must not be persisted")
	}
}

func TestProcessMessage_RetrievalFailureReturnsFallback(t *testing.T) {
	f := newUsecaseFixture(10)
	f.knowledgeRepo.err = errors.New("database down")

	result, err := f.uc.ProcessMessage(context.Background(), 1, "What is compounding?")
	if err != nil {
		t.Fatalf("retrieval failure should not surface as error, got %v", err)
	}
	if result.Answer != pipelineFallbackAnswer {
		t.Errorf("expected pipeline fallback answer, got %q", result.Answer)
	}
	if f.completionConn.calls != 0 {
		t.Error("completion should not run when retrieval fails")
	}
}

func TestProcessMessage_CompletionFailureReturnsFallback(t *testing.T) {
	f := newUsecaseFixture(10)
	f.knowledgeRepo.docs = docsWithContent("relevant doc")
	f.completionConn.err = errors.New("upstream 503")

	result, err := f.uc.ProcessMessage(context.Background(), 1, "What is a dividend?")
	if err != nil {
		t.Fatalf("completion failure should not surface as error, got %v", err)
	}
	if result.Answer != completionFallbackAnswer {
		t.Errorf("expected completion fallback answer, got %q", result.Answer)
	}
	if len(result.Sources) != 1 {
		t.Errorf("sources should still be returned, got %v", result.Sources)
	}
	if len(f.chatLogRepo.created) != 1 {
		t.Error("the exchange should still be logged with the fallback answer")
	}
}

func TestProcessMessage_LogFailureDoesNotAlterResponse(t *testing.T) {
	f := newUsecaseFixture(10)
	f.chatLogRepo.createErr = errors.New("insert failed")

	result, err := f.uc.ProcessMessage(context.Background(), 1, "What is a mutual fund?")
	if err != nil {
		t.Fatalf("log failure should not surface as error, got %v", err)
	}
	if result.Answer != "an educational answer" {
		t.Errorf("answer changed after log failure: %q", result.Answer)
	}
}

func TestProcessMessage_PromptCarriesSanitizedQuestion(t *testing.T) {
	f := newUsecaseFixture(10)
	f.knowledgeRepo.docs = docsWithContent("doc A")

	if _, err := f.uc.ProcessMessage(context.Background(), 1, "What is an annuity?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := BuildPrompt("What is an annuity?", []string{"doc A"})
	if f.completionConn.prompt != want {
		t.Errorf("prompt mismatch\nwant: %q\ngot:  %q", want, f.completionConn.prompt)
	}
}

func TestGetChatStats_Aggregates(t *testing.T) {
	f := newUsecaseFixture(10)
	f.chatLogRepo.logs = []entity.ChatLog{
		{Query: "abcd", Answer: "efghij"},
		{Query: "kl", Answer: "mno"},
	}

	stats, err := f.uc.GetChatStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalMessages != 2 {
		t.Errorf("expected 2 messages, got %d", stats.TotalMessages)
	}
	if stats.TotalQueryLength != 6 {
		t.Errorf("expected total query length 6, got %d", stats.TotalQueryLength)
	}
	if stats.TotalAnswerLength != 9 {
		t.Errorf("expected total answer length 9, got %d", stats.TotalAnswerLength)
	}
}
