// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/tka-exam-bot/internal/repository"
	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

// Auth messages.
const (
	msgIncompleteIdentity = "Harap isi Username, Nomor WhatsApp, dan Password."
	msgDuplicateUsername  = "Username ini sudah digunakan."
	msgDuplicatePhone     = "Nomor WhatsApp ini sudah terdaftar."
	msgRegistered         = "Registrasi Berhasil! Gunakan Username dan Password Anda untuk masuk."
	msgInvalidCredentials = "Username atau Password salah."
	msgRecoverUsage       = "Masukkan Nomor WhatsApp Anda.\nContoh: /recover 081234567890"
	msgPhoneNotFound      = "Nomor WhatsApp tidak terdaftar dalam database kami."
	msgLoginRequired      = "Silakan masuk terlebih dahulu dengan /login <username> <password>."
	msgLoggedOut          = "Anda telah keluar. Riwayat ujian tetap tersimpan."
	msgRegisterUsage      = "Gunakan: /register <username> <nomor_whatsapp> <password>"
	msgLoginUsage         = "Gunakan: /login <username> <password>"
)

// Exam messages.
const (
	msgGenerating       = "Sedang menyusun soal ujian, mohon tunggu…"
	msgGenerationFailed = "AI sedang sibuk atau API Key bermasalah. Silakan coba lagi."
	msgInvalidState     = "Perintah ini tidak tersedia pada tahap ujian saat ini."
	msgExamInProgress   = "Ujian sedang disiapkan atau sudah berjalan. Ketik /exam untuk melanjutkan."
	msgNoExam           = "Belum ada ujian yang berjalan. Pilih topik dengan /topics lalu tekan Mulai Ujian."
	msgNoResult         = "Belum ada hasil ujian. Selesaikan ujian terlebih dahulu."
	msgNoHistory        = "Belum ada riwayat ujian."
	msgStaleInteraction = "Tombol ini milik sesi ujian sebelumnya."
	msgAnswerIgnored    = "Jawaban tidak valid untuk soal ini."
	msgAutoSubmitted    = "Waktu habis! Jawaban Anda telah dikumpulkan secara otomatis."
)

// Generic messages.
const (
	msgInternalError  = "Terjadi kesalahan. Silakan coba lagi nanti."
	msgUnknownCommand = "Perintah tidak dikenal. Ketik /help untuk melihat daftar perintah."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// welcomeText builds the /start message.
func welcomeText(username string) string {
	var sb strings.Builder

	sb.WriteString(bold("TKA SD Simulator"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Latihan Tes Kemampuan Akademik (Literasi dan Numerasi) dengan soal yang disusun AI."))
	sb.WriteString("\n\n")

	if username != "" {
		sb.WriteString(md("Anda masuk sebagai "))
		sb.WriteString(bold(username))
		sb.WriteString(md("."))
		sb.WriteString("\n")
		sb.WriteString(md("Ketik /topics untuk memilih topik dan memulai ujian."))
		return sb.String()
	}

	sb.WriteString(md("Untuk memulai:"))
	sb.WriteString("\n")
	sb.WriteString(md("1. Daftar dengan /register <username> <nomor_whatsapp> <password>"))
	sb.WriteString("\n")
	sb.WriteString(md("2. Masuk dengan /login <username> <password>"))
	sb.WriteString("\n")
	sb.WriteString(md("3. Lupa password? Gunakan /recover <nomor_whatsapp>"))
	return sb.String()
}

const helpText = `Daftar perintah:

/start - halaman awal
/register <username> <nomor_whatsapp> <password> - buat akun
/login <username> <password> - masuk
/recover <nomor_whatsapp> - pulihkan akun
/logout - keluar
/topics - pilih topik ujian
/generate - mulai ujian dengan topik terpilih
/exam - tampilkan soal yang sedang dikerjakan
/submit - kumpulkan jawaban
/result - tampilkan hasil ujian terakhir
/review - pembahasan soal
/retry - ulangi dengan topik yang sama
/history - riwayat ujian`

// recoveryText reveals the stored credentials of identity.
func recoveryText(username, password string) string {
	return fmt.Sprintf("Akun ditemukan!\nUsername: %s\nPassword: %s", username, password)
}

func sessionExpiredText(timeout time.Duration) string {
	return fmt.Sprintf(
		"Sesi Anda telah berakhir karena tidak ada aktivitas selama %d menit. Silakan masuk kembali.",
		int(timeout/time.Minute),
	)
}

// userMessage maps an operation error to the text shown to the user.
// ok is false for errors that must not be shown.
func userMessage(err error) (text string, ok bool) {
	switch {
	case errors.Is(err, repository.ErrInvalidCredentials):
		return msgInvalidCredentials, true
	case errors.Is(err, repository.ErrDuplicateUsername):
		return msgDuplicateUsername, true
	case errors.Is(err, repository.ErrDuplicatePhone):
		return msgDuplicatePhone, true
	case errors.Is(err, repository.ErrPhoneNotFound):
		return msgPhoneNotFound, true
	case errors.Is(err, repository.ErrIncompleteIdentity):
		return msgIncompleteIdentity, true
	case errors.Is(err, service.ErrGenerationFailed):
		return msgGenerationFailed, true
	case errors.Is(err, service.ErrNotAuthenticated):
		return msgLoginRequired, true
	case errors.Is(err, service.ErrInvalidState):
		return msgInvalidState, true
	case errors.Is(err, service.ErrSessionAbandoned),
		errors.Is(err, service.ErrStaleInteraction),
		errors.Is(err, service.ErrShapeMismatch),
		errors.Is(err, service.ErrUnanswerable),
		errors.Is(err, service.ErrQuestionIndex):
		return "", false
	default:
		return msgInternalError, true
	}
}

// isExpected reports whether err is part of the normal flow rather than a fault.
func isExpected(err error) bool {
	text, ok := userMessage(err)
	return !ok || text != msgInternalError
}
