package keyboard

import (
	"github.com/futig/switch-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var testTypeLabels = map[entity.TestType]string{
	entity.TestTypeHalon:           "Halon",
	entity.TestTypeSystemStress:    "System stress",
	entity.TestTypeFeatureTests:    "Feature tests",
	entity.TestTypeCommonLibraries: "Common libraries",
}

// TestTypeLabel returns the human readable name of a test type
func TestTypeLabel(t entity.TestType) string {
	if label, ok := testTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// TestTypeKeyboard lists the test types two per row and marks the selected one
func (b *Builder) TestTypeKeyboard(selected entity.TestType) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, t := range entity.AllTestTypes() {
		label := TestTypeLabel(t)
		if t == selected {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionTestType, string(t))))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// AnswerKeyboard is attached to every answer
func (b *Builder) AnswerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 History", EncodeCallback(ActionCommand, CommandHistory)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 New session", EncodeCallback(ActionCommand, CommandNewSession)),
		),
	)
}

// PendingFilesKeyboard is shown after a document was attached
func (b *Builder) PendingFilesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Remove attachments", EncodeCallback(ActionCommand, CommandClearFiles)),
		),
	)
}

// ExportKeyboard offers the transcript formats
func (b *Builder) ExportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 .md", EncodeCallback(ActionExport, string(entity.FormatMarkdown))),
			tgbotapi.NewInlineKeyboardButtonData("📕 .pdf", EncodeCallback(ActionExport, string(entity.FormatPDF))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 .docx", EncodeCallback(ActionExport, string(entity.FormatDOCX))),
			tgbotapi.NewInlineKeyboardButtonData("🧾 .json", EncodeCallback(ActionExport, string(entity.FormatJSON))),
		),
	)
}
