package chat

import (
	"context"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Submit sends the question to the QA service once per file text, or once
// without file content when there are none. Calls run one after another and
// the first failure aborts the rest; answers gathered so far are discarded.
func (uc *ChatUsecase) Submit(
	ctx context.Context,
	question string,
	testType entity.TestType,
	fileTexts []string,
) (*entity.QueryResult, error) {
	blocks := fileTexts
	if len(blocks) == 0 {
		blocks = []string{""}
	}

	result := &entity.QueryResult{
		Answers:    make([]string, 0, len(blocks)),
		SourceURLs: make([]string, 0),
		SessionID:  entity.NoSessionID,
	}
	seen := make(map[string]bool)

	for i, block := range blocks {
		resp, err := uc.qaConnector.Ask(ctx, &entity.QueryRequest{
			Question:    question,
			TestType:    testType,
			FileContent: block,
		})
		if err != nil {
			submitErr := &entity.SubmitError{Block: i, Blocks: len(fileTexts), Err: err}
			if len(fileTexts) == 0 {
				submitErr.Block = -1
			}
			ctxzap.Warn(ctx, "QA submission aborted",
				zap.Int("block", i),
				zap.Int("blocks", len(blocks)),
				zap.Error(err),
			)
			return nil, submitErr
		}

		result.Answers = append(result.Answers, resp.Answer)
		for _, u := range resp.SourceURLs {
			if !seen[u] {
				seen[u] = true
				result.SourceURLs = append(result.SourceURLs, u)
			}
		}
		result.SessionID = resp.SessionID
	}

	return result, nil
}
