package validator

import (
	"fmt"
	"strings"

	"github.com/futig/switch-assistant/internal/entity"
)

// ValidateAsk validates a question submission and its attachments
func (v *Validator) ValidateAsk(req *entity.AskRequest) error {
	if req == nil || strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	if _, err := entity.ParseTestType(req.TestType); err != nil {
		return err
	}

	if err := v.ValidateUpload(req.Uploads); err != nil {
		return err
	}

	return v.ValidateFiles(req.Files)
}
