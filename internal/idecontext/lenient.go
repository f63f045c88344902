package idecontext

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Entry types decode member by member: a member of the wrong type reads as
// its zero value instead of failing the whole entry. Scalars are coerced
// the way they would print (2 becomes "2", "3" becomes 3).

// UnmarshalJSON implements json.Unmarshaler.
func (s *Selection) UnmarshalJSON(data []byte) error {
	obj, err := objectMembers(data)
	if err != nil {
		return err
	}
	*s = Selection{
		StartLine:    intMember(obj["startLine"]),
		EndLine:      intMember(obj["endLine"]),
		SelectedText: textMember(obj["selectedText"]),
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *Inspection) UnmarshalJSON(data []byte) error {
	obj, err := objectMembers(data)
	if err != nil {
		return err
	}
	*in = Inspection{
		Inspection:  textMember(obj["inspection"]),
		Severity:    textMember(obj["severity"]),
		Description: textMember(obj["description"]),
		Line:        intMember(obj["line"]),
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Highlight) UnmarshalJSON(data []byte) error {
	obj, err := objectMembers(data)
	if err != nil {
		return err
	}
	*h = Highlight{
		Line:        intMember(obj["line"]),
		Severity:    textMember(obj["severity"]),
		Description: textMember(obj["description"]),
		ToolTip:     textMember(obj["toolTip"]),
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Function) UnmarshalJSON(data []byte) error {
	obj, err := objectMembers(data)
	if err != nil {
		return err
	}
	var primary bool
	_ = json.Unmarshal(obj["isPrimary"], &primary)
	*f = Function{
		Name:      textMember(obj["name"]),
		Signature: textMember(obj["signature"]),
		IsPrimary: primary,
		StartLine: intMember(obj["startLine"]),
		EndLine:   intMember(obj["endLine"]),
		Content:   textMember(obj["content"]),
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *CodeWindow) UnmarshalJSON(data []byte) error {
	obj, err := objectMembers(data)
	if err != nil {
		return err
	}
	*w = CodeWindow{
		StartLine: intMember(obj["startLine"]),
		EndLine:   intMember(obj["endLine"]),
		Content:   textMember(obj["content"]),
	}
	return nil
}

var errNotObject = errors.New("entry is not an object")

func objectMembers(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

// textMember returns a string member, or the printed form of a number or
// boolean. Anything else is empty.
func textMember(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return "true"
	case "false":
		return "false"
	}
	return ""
}

// intMember returns an integral number member. Floats are truncated and
// numeric strings parsed; anything else is 0.
func intMember(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return clampInt(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return clampInt(f)
		}
	}
	return 0
}

func clampInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
