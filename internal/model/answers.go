package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Answer is one assessment response: free text, a single choice, a
// numeric-as-string, or a multi-select list.
type Answer struct {
	Text    string
	Choices []string
}

// UnmarshalJSON accepts a string, a number, or an array of strings.
func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = Answer{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Answer{Text: s}
	case '[':
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		*a = Answer{Choices: list}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("answer: unsupported value %s", string(b))
		}
		*a = Answer{Text: n.String()}
	}
	return nil
}

// MarshalJSON writes lists as arrays and everything else as a string.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Choices != nil {
		return json.Marshal(a.Choices)
	}
	return json.Marshal(a.Text)
}

// Answers maps question ids to responses.
type Answers map[string]Answer

// Has reports whether id has a non-empty answer.
func (a Answers) Has(id string) bool {
	ans, ok := a[id]
	if !ok {
		return false
	}
	return strings.TrimSpace(ans.Text) != "" || len(ans.Choices) > 0
}

// Text returns the trimmed text answer for id. A list answer is joined with ", ".
func (a Answers) Text(id string) string {
	ans, ok := a[id]
	if !ok {
		return ""
	}
	if strings.TrimSpace(ans.Text) != "" {
		return strings.TrimSpace(ans.Text)
	}
	return strings.Join(ans.Choices, ", ")
}

// Choices returns the selected options for id. A plain text answer counts as
// a single selection.
func (a Answers) Choices(id string) []string {
	ans, ok := a[id]
	if !ok {
		return nil
	}
	if len(ans.Choices) > 0 {
		out := make([]string, 0, len(ans.Choices))
		for _, c := range ans.Choices {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
		return out
	}
	if t := strings.TrimSpace(ans.Text); t != "" {
		return []string{t}
	}
	return nil
}

// Number parses the answer for id as a float, returning def when missing or
// unparseable.
func (a Answers) Number(id string, def float64) float64 {
	t := a.Text(id)
	if t == "" {
		return def
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return def
	}
	return v
}
