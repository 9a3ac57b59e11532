package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

const optionsPerRow = 4

// buildTopicsKeyboard builds one button per catalog topic, checked when selected.
func buildTopicsKeyboard(sel entities.TopicSelection) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for si, subject := range entities.Subjects {
		catalog, _ := entities.Topics(subject)
		for ti, topic := range catalog {
			mark := "⬜️"
			if sel.Has(subject, topic) {
				mark = "✅"
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(mark+" "+topic, buildTopicCallback(si, ti)),
			))
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚀 Mulai Ujian", buildGenerateCallback()),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// buildQuestionKeyboard builds the answer buttons of the question at the
// cursor followed by navigation and submit.
func buildQuestionKeyboard(s service.ExamSnapshot) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if s.Cursor >= 0 && s.Cursor < len(s.Questions) {
		q := s.Questions[s.Cursor]
		if q.Answerable() {
			rows = append(rows, answerRows(s.Attempt, s.Cursor, &q, s.Answers[s.Cursor])...)
		}
	}

	rows = append(rows, navRow(s.Attempt, s.Cursor, len(s.Questions), buildNavCallback))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📤 Kumpulkan", buildSubmitCallback(s.Attempt)),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func answerRows(attempt uint64, index int, q *entities.Question, answer entities.Answer) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton

	if q.Type == entities.QuestionTypeCategorization {
		chosen, _ := answer.(entities.CategorizationAnswer)
		labels := q.CategoryLabels()
		for si := range q.Categories {
			var row []tgbotapi.InlineKeyboardButton
			for li, label := range labels {
				text := fmt.Sprintf("%d: %s", si+1, label)
				if l, ok := chosen[si]; ok && l == label {
					text = "✅ " + text
				}
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(text, buildCategoryCallback(attempt, index, si, li)))
			}
			rows = append(rows, row)
		}
		return rows
	}

	var row []tgbotapi.InlineKeyboardButton
	for oi, opt := range q.Options {
		text := optionLabel(oi)
		if optionSelected(answer, opt) {
			text = "✅ " + text
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(text, buildAnswerCallback(attempt, index, oi)))
		if len(row) == optionsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// navRow builds previous, position and next buttons.
func navRow(attempt uint64, cursor, total int, target func(uint64, int) string) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton

	if cursor > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️", target(attempt, cursor-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", cursor+1, total), actionNoop))
	if cursor < total-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("▶️", target(attempt, cursor+1)))
	}

	return row
}

// buildResultKeyboard builds keyboard for the result screen.
func buildResultKeyboard(attempt uint64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Pembahasan", buildReviewCallback(attempt, 0)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Ulangi Ujian", buildRetryCallback(attempt)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗂 Riwayat", buildHistoryCallback()),
		),
	)
}

// buildReviewKeyboard builds pagination keyboard for review pages.
func buildReviewKeyboard(attempt uint64, item, total int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		navRow(attempt, item, total, buildReviewCallback),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Kembali ke Hasil", buildResultCallback(attempt)),
		),
	)
}
