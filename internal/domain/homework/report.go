// internal/domain/homework/report.go
package homework

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ReportKind distinguishes what a report tells the user.
type ReportKind string

const (
	ReportNone      ReportKind = ""           // nothing dispatched yet
	ReportStatus    ReportKind = "STATUS"     // a homework changed status
	ReportNoUpdates ReportKind = "NO_UPDATES" // the API returned no records
	ReportError     ReportKind = "ERROR"      // the cycle failed
)

// NoUpdatesMessage is sent when a successful fetch carries no records.
const NoUpdatesMessage = "Обновлений нет"

// ErrorMessagePrefix starts every user-facing failure message.
const ErrorMessagePrefix = "Сбой в работе программы"

// MaxMessageRunes caps report text below Telegram's 4096 character message limit.
const MaxMessageRunes = 3500

// Report is the dedup unit: two reports are the same notification iff they are ==.
type Report struct {
	Kind         ReportKind
	HomeworkName string
	Message      string
}

func NewStatusReport(name, message string) Report {
	return Report{Kind: ReportStatus, HomeworkName: name, Message: truncRunes(message, MaxMessageRunes)}
}

func NewNoUpdatesReport() Report {
	return Report{Kind: ReportNoUpdates, Message: NoUpdatesMessage}
}

// NewErrorReport describes cause for the chat. Endpoint bodies are left out;
// they stay in the error itself for logging.
func NewErrorReport(cause error) Report {
	text := cause.Error()
	var he *Error
	if errors.As(cause, &he) {
		text = he.Summary()
	}
	message := fmt.Sprintf("%s: %s", ErrorMessagePrefix, text)
	return Report{Kind: ReportError, Message: truncRunes(message, MaxMessageRunes)}
}

// IsZero reports whether no report has been dispatched yet.
func (r Report) IsZero() bool { return r == Report{} }

// AdvancesCursor reports whether dispatching r may move the cursor forward.
func (r Report) AdvancesCursor() bool {
	return r.Kind == ReportStatus || r.Kind == ReportNoUpdates
}

// truncRunes cuts s to at most n runes, marking the cut with an ellipsis.
func truncRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n-1 {
			return s[:i] + "…"
		}
		count++
	}
	return s
}
