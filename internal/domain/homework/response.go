// internal/domain/homework/response.go
package homework

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
	keyStatus      = "status"
	keyName        = "homework_name"
)

// Batch is the validated content of one API response.
type Batch struct {
	Records     []Record // newest first, may be empty
	CurrentDate Cursor   // next cursor supplied by the server
}

// Newest returns the first record, if any.
func (b Batch) Newest() (Record, bool) {
	if len(b.Records) == 0 {
		return Record{}, false
	}
	return b.Records[0], true
}

// Validate checks the shape of a raw response body and extracts its records.
// Missing keys and undecodable bodies are FORMAT errors; wrong shapes are TYPE errors.
func Validate(raw []byte) (Batch, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return Batch{}, newFormatError(OpValidate, "response body is not valid JSON", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Batch{}, newFormatError(OpValidate, "response body has trailing data after the JSON value", err)
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return Batch{}, newTypeError(OpValidate, fmt.Sprintf("response is %s, expected an object", describe(payload)))
	}

	rawHomeworks, ok := obj[keyHomeworks]
	if !ok {
		return Batch{}, newFormatError(OpValidate, "homeworks key is missing in response", nil)
	}
	rawDate, ok := obj[keyCurrentDate]
	if !ok {
		return Batch{}, newFormatError(OpValidate, "current_date key is missing in response", nil)
	}

	items, ok := rawHomeworks.([]any)
	if !ok {
		return Batch{}, newTypeError(OpValidate, fmt.Sprintf("homeworks is %s, expected a list", describe(rawHomeworks)))
	}

	num, ok := rawDate.(json.Number)
	if !ok {
		return Batch{}, newTypeError(OpValidate, fmt.Sprintf("current_date is %s, expected an integer", describe(rawDate)))
	}
	date, err := num.Int64()
	if err != nil {
		return Batch{}, newTypeError(OpValidate, fmt.Sprintf("current_date %q is not an integer", num.String()))
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return Batch{}, newTypeError(OpValidate, fmt.Sprintf("homeworks[%d] is %s, expected an object", i, describe(item)))
		}
		records = append(records, recordFrom(fields))
	}

	return Batch{Records: records, CurrentDate: Cursor(date)}, nil
}

func recordFrom(fields map[string]any) Record {
	var r Record
	if v, ok := fields[keyStatus]; ok && v != nil {
		r.Status = Status(stringify(v))
	}
	if v, ok := fields[keyName]; ok {
		r.HasName = true
		r.Name = stringify(v)
	}
	return r
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
