package chat

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/pkg/validator"
	"github.com/futig/switch-assistant/internal/repository"
	"go.uber.org/zap/zaptest"
)

// scriptedConnector answers call i with responses[i] or errs[i]
type scriptedConnector struct {
	mu        sync.Mutex
	requests  []entity.QueryRequest
	responses map[int]*entity.QueryResponse
	errs      map[int]error
}

func (c *scriptedConnector) Ask(_ context.Context, req *entity.QueryRequest) (*entity.QueryResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := len(c.requests)
	c.requests = append(c.requests, *req)

	if err, ok := c.errs[i]; ok {
		return nil, err
	}
	if resp, ok := c.responses[i]; ok {
		return resp, nil
	}
	return &entity.QueryResponse{
		Answer:     fmt.Sprintf("answer %d", i+1),
		SourceURLs: []string{"https://wiki/common"},
		SessionID:  fmt.Sprintf("qa-%d", i+1),
	}, nil
}

func (c *scriptedConnector) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func newTestUsecase(t *testing.T, conn QAConnector, recordFailed bool) *ChatUsecase {
	t.Helper()

	logger := zaptest.NewLogger(t)
	repo := repository.NewSessionMemory(time.Hour, time.Hour, logger)
	v := validator.NewFileValidator(config.FileUploadConfig{
		MaxFileSize:  1 << 20,
		MaxTotalSize: 4 << 20,
		MaxFileCount: 10,
	})

	return NewUsecase(repo, v, conn, recordFailed, logger)
}

func startSession(t *testing.T, uc *ChatUsecase) string {
	t.Helper()

	session, err := uc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	return session.ID
}

func TestSubmit_NoFilesSingleCall(t *testing.T) {
	conn := &scriptedConnector{}
	uc := newTestUsecase(t, conn, true)

	result, err := uc.Submit(context.Background(), "how to run stress?", entity.TestTypeSystemStress, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if conn.calls() != 1 {
		t.Fatalf("calls = %d, want 1", conn.calls())
	}
	if conn.requests[0].FileContent != "" {
		t.Errorf("FileContent = %q, want empty", conn.requests[0].FileContent)
	}
	if !reflect.DeepEqual(result.Answers, []string{"answer 1"}) {
		t.Errorf("Answers = %v", result.Answers)
	}
}

func TestSubmit_OneCallPerFile(t *testing.T) {
	conn := &scriptedConnector{
		responses: map[int]*entity.QueryResponse{
			0: {Answer: "first", SourceURLs: []string{"u1", "u2"}, SessionID: "a"},
			1: {Answer: "second", SourceURLs: []string{"u2", "u3"}, SessionID: "b"},
			2: {Answer: "third", SourceURLs: []string{"u1"}, SessionID: "c"},
		},
	}
	uc := newTestUsecase(t, conn, true)

	result, err := uc.Submit(context.Background(), "q", entity.TestTypeHalon, []string{"f1", "f2", "f3"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if conn.calls() != 3 {
		t.Fatalf("calls = %d, want 3", conn.calls())
	}
	for i, want := range []string{"f1", "f2", "f3"} {
		if conn.requests[i].FileContent != want {
			t.Errorf("request %d FileContent = %q, want %q", i, conn.requests[i].FileContent, want)
		}
	}

	want := &entity.QueryResult{
		Answers:    []string{"first", "second", "third"},
		SourceURLs: []string{"u1", "u2", "u3"},
		SessionID:  "c",
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Submit() = %+v, want %+v", result, want)
	}
}

func TestSubmit_FailFast(t *testing.T) {
	apiErr := &entity.APIError{StatusCode: 500, Body: "internal"}
	conn := &scriptedConnector{errs: map[int]error{1: apiErr}}
	uc := newTestUsecase(t, conn, true)

	result, err := uc.Submit(context.Background(), "q", entity.TestTypeHalon, []string{"a", "b", "c"})
	if result != nil {
		t.Errorf("Submit() result = %+v, want nil", result)
	}

	var submitErr *entity.SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("Submit() error = %v, want *entity.SubmitError", err)
	}
	if submitErr.Block != 1 || submitErr.Blocks != 3 {
		t.Errorf("SubmitError = %+v, want block 1 of 3", submitErr)
	}

	var gotAPI *entity.APIError
	if !errors.As(err, &gotAPI) || gotAPI.StatusCode != 500 {
		t.Errorf("cause = %v, want APIError 500", err)
	}

	if conn.calls() != 2 {
		t.Errorf("calls = %d, want 2 (third block must not be sent)", conn.calls())
	}
}

func TestSubmit_ErrorWithoutFiles(t *testing.T) {
	conn := &scriptedConnector{errs: map[int]error{0: &entity.TransportError{Err: context.DeadlineExceeded}}}
	uc := newTestUsecase(t, conn, true)

	_, err := uc.Submit(context.Background(), "q", entity.TestTypeHalon, nil)

	var submitErr *entity.SubmitError
	if !errors.As(err, &submitErr) || submitErr.Block != -1 {
		t.Fatalf("Submit() error = %v, want SubmitError without block", err)
	}
	if err.Error() != submitErr.Err.Error() {
		t.Errorf("error message %q should be the cause message", err)
	}
}

func TestAsk_RecordsExchangesInOrder(t *testing.T) {
	conn := &scriptedConnector{}
	uc := newTestUsecase(t, conn, true)
	sessionID := startSession(t, uc)
	ctx := context.Background()

	questions := []string{"first?", "second?", "third?"}
	for _, q := range questions {
		if _, err := uc.Ask(ctx, sessionID, &entity.AskRequest{Question: q}); err != nil {
			t.Fatalf("Ask(%q) error = %v", q, err)
		}
	}

	history, err := uc.History(ctx, sessionID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != len(questions) {
		t.Fatalf("len(History()) = %d, want %d", len(history), len(questions))
	}
	for i, q := range questions {
		if history[i].UserText != q {
			t.Errorf("exchange %d UserText = %q, want %q", i, history[i].UserText, q)
		}
		if history[i].TestType != entity.DefaultTestType {
			t.Errorf("exchange %d TestType = %q", i, history[i].TestType)
		}
		if want := fmt.Sprintf("answer %d", i+1); history[i].Answers[0] != want {
			t.Errorf("exchange %d answer = %q, want %q", i, history[i].Answers[0], want)
		}
	}
}

func TestAsk_SanitizesQuestion(t *testing.T) {
	conn := &scriptedConnector{}
	uc := newTestUsecase(t, conn, true)
	sessionID := startSession(t, uc)

	raw := `  How  do I "run" halon ,tests ?`
	exchange, err := uc.Ask(context.Background(), sessionID, &entity.AskRequest{Question: raw, TestType: "halon_test"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	want := "How do I run halon, tests?"
	if conn.requests[0].Question != want {
		t.Errorf("sent question = %q, want %q", conn.requests[0].Question, want)
	}
	if exchange.Question != want || exchange.UserText != raw {
		t.Errorf("exchange = %+v", exchange)
	}
}

func TestAsk_AttachedFiles(t *testing.T) {
	conn := &scriptedConnector{}
	uc := newTestUsecase(t, conn, true)
	sessionID := startSession(t, uc)

	exchange, err := uc.Ask(context.Background(), sessionID, &entity.AskRequest{
		Question: "review",
		TestType: "feature_tests",
		Files: []entity.FileData{
			{Filename: "a.py", Content: []byte("print(1)")},
			{Filename: "b.yaml", Content: []byte("k: v")},
		},
	})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if len(exchange.Answers) != 2 {
		t.Errorf("Answers = %v, want one per file", exchange.Answers)
	}
	if conn.requests[1].FileContent != "k: v" {
		t.Errorf("second FileContent = %q", conn.requests[1].FileContent)
	}
}

func TestAsk_FailureRecording(t *testing.T) {
	tests := []struct {
		name         string
		recordFailed bool
		wantLen      int
	}{
		{name: "recorded", recordFailed: true, wantLen: 1},
		{name: "not recorded", recordFailed: false, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &scriptedConnector{errs: map[int]error{0: &entity.APIError{StatusCode: 403, Body: "forbidden"}}}
			uc := newTestUsecase(t, conn, tt.recordFailed)
			sessionID := startSession(t, uc)

			exchange, err := uc.Ask(context.Background(), sessionID, &entity.AskRequest{Question: "q"})

			var apiErr *entity.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Ask() error = %v, want APIError", err)
			}

			history, _ := uc.History(context.Background(), sessionID)
			if len(history) != tt.wantLen {
				t.Fatalf("len(History()) = %d, want %d", len(history), tt.wantLen)
			}

			if !tt.recordFailed {
				if exchange != nil {
					t.Errorf("exchange = %+v, want nil", exchange)
				}
				return
			}

			if exchange == nil || !exchange.Failed() {
				t.Fatalf("exchange = %+v, want failed exchange", exchange)
			}
			if !reflect.DeepEqual(history[0].Answers, []string{entity.NoAnswerFound}) {
				t.Errorf("Answers = %v", history[0].Answers)
			}
		})
	}
}

func TestAsk_RejectedRequests(t *testing.T) {
	tests := []struct {
		name    string
		req     *entity.AskRequest
		wantErr error
	}{
		{name: "invalid test type", req: &entity.AskRequest{Question: "q", TestType: "smoke"}, wantErr: entity.ErrInvalidTestType},
		{name: "empty question", req: &entity.AskRequest{Question: ""}, wantErr: entity.ErrMissingField},
		{name: "only quotes", req: &entity.AskRequest{Question: `"" ''`}, wantErr: entity.ErrMissingField},
		{
			name:    "bad extension",
			req:     &entity.AskRequest{Question: "q", Files: []entity.FileData{{Filename: "x.exe", Content: []byte("MZ")}}},
			wantErr: entity.ErrInvalidExtension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &scriptedConnector{}
			uc := newTestUsecase(t, conn, true)
			sessionID := startSession(t, uc)

			_, err := uc.Ask(context.Background(), sessionID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Ask() error = %v, want %v", err, tt.wantErr)
			}
			if !IsClientError(err) {
				t.Errorf("IsClientError(%v) = false", err)
			}
			if conn.calls() != 0 {
				t.Errorf("QA service called %d times for a rejected request", conn.calls())
			}

			history, _ := uc.History(context.Background(), sessionID)
			if len(history) != 0 {
				t.Errorf("rejected request was recorded: %+v", history)
			}
		})
	}
}

func TestAsk_UndecodableFile(t *testing.T) {
	conn := &scriptedConnector{}
	uc := newTestUsecase(t, conn, true)
	sessionID := startSession(t, uc)

	_, err := uc.Ask(context.Background(), sessionID, &entity.AskRequest{
		Question: "q",
		Files:    []entity.FileData{{Filename: "bin.txt", Content: []byte{0xff}}},
	})

	var decodeErr *entity.DecodingError
	if !errors.As(err, &decodeErr) || decodeErr.Filename != "bin.txt" {
		t.Fatalf("Ask() error = %v, want DecodingError for bin.txt", err)
	}
	if conn.calls() != 0 {
		t.Errorf("QA service called for an undecodable file")
	}
}

func TestUnknownSession(t *testing.T) {
	uc := newTestUsecase(t, &scriptedConnector{}, true)
	ctx := context.Background()

	if _, err := uc.Ask(ctx, "missing", &entity.AskRequest{Question: "q"}); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("Ask() error = %v", err)
	}
	if _, err := uc.History(ctx, "missing"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("History() error = %v", err)
	}
	if _, err := uc.Transcript(ctx, "missing"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("Transcript() error = %v", err)
	}
	if err := uc.EndSession(ctx, "missing"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("EndSession() error = %v", err)
	}
}

func TestEndSessionDiscardsConversation(t *testing.T) {
	uc := newTestUsecase(t, &scriptedConnector{}, true)
	ctx := context.Background()
	sessionID := startSession(t, uc)

	if _, err := uc.Ask(ctx, sessionID, &entity.AskRequest{Question: "q"}); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if err := uc.EndSession(ctx, sessionID); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if _, err := uc.History(ctx, sessionID); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("History() after end error = %v", err)
	}
}

func TestTranscript(t *testing.T) {
	uc := newTestUsecase(t, &scriptedConnector{}, true)
	ctx := context.Background()
	sessionID := startSession(t, uc)

	if _, err := uc.Ask(ctx, sessionID, &entity.AskRequest{Question: "q"}); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	transcript, err := uc.Transcript(ctx, sessionID)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if transcript.SessionID != sessionID || len(transcript.Exchanges) != 1 || transcript.GeneratedAt.IsZero() {
		t.Errorf("Transcript() = %+v", transcript)
	}
}
