// internal/domain/homework/homework.go
package homework

import "fmt"

// Cursor is the "changes since" watermark sent as from_date (unix seconds).
type Cursor int64

// Status is the review status code reported by the API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// verdicts is the closed set of known statuses. Anything else is an error.
var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable text for status.
func Verdict(status Status) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// Record is one element of the "homeworks" sequence.
type Record struct {
	Name    string
	Status  Status
	HasName bool // homework_name key was present
}

// Interpret maps a record to the message sent to the chat.
// It is pure: equal records always yield byte-identical messages.
func Interpret(r Record) (string, error) {
	verdict, ok := Verdict(r.Status)
	if !ok {
		return "", newUnknownStatusError(r.Status)
	}
	if !r.HasName {
		return "", newFormatError(OpInterpret, "homework_name is missing in record", nil)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", r.Name, verdict), nil
}
