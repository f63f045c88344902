package idecontext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Decode builds a Context from a JSON payload. It returns nil when the
// payload is not a JSON object. Each known key is decoded on its own; a key
// whose value has an unexpected shape is dropped and the rest survive. Lists
// keep their well-formed entries.
func Decode(data []byte) *Context {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	c := &Context{}
	decodeField(fields, "active", &c.Active)
	decodeField(fields, "selection", &c.Selection)
	decodeList(fields, "others", &c.Others)
	decodeField(fields, "scope", &c.Scope)
	decodeField(fields, "package", &c.Package)
	decodeField(fields, "annotations", &c.Annotations)
	decodeList(fields, "inspections", &c.Inspections)
	decodeList(fields, "highlights", &c.Highlights)
	decodeList(fields, "selectedFunctions", &c.SelectedFunctions)
	decodeField(fields, "currentWindow", &c.CurrentWindow)
	decodeField(fields, "classHierarchy", &c.ClassHierarchy)
	decodeList(fields, "fields", &c.Fields)
	decodeList(fields, "methodCalls", &c.MethodCalls)
	decodeField(fields, "imports", &c.Imports)
	decodeList(fields, "errors", &c.Errors)
	decodeField(fields, "comments", &c.Comments)
	c.References = rawField(fields, "references")
	c.QuickFixes = rawField(fields, "quickFixes")
	c.InjectedLanguages = rawField(fields, "injectedLanguages")
	return c
}

// DecodeYAML builds a Context from a YAML payload using the same rules as
// Decode.
func DecodeYAML(data []byte) *Context {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Debug().Err(err).Msg("context payload is not valid YAML")
		return nil
	}
	doc = normalizeYAML(doc)
	if _, ok := doc.(map[string]any); !ok {
		return nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		log.Debug().Err(err).Msg("context payload cannot be converted to JSON")
		return nil
	}
	return Decode(js)
}

// Parse decodes a payload, choosing YAML for .yaml and .yml names and JSON
// for everything else.
func Parse(name string, data []byte) *Context {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return Decode(bytes.TrimSpace(data))
	}
}

// Load reads and decodes a context file. Only I/O failures are errors; a
// payload of the wrong shape yields a nil Context.
func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}
	return Parse(path, data), nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Debug().Str("field", key).Err(err).Msg("dropping malformed context field")
		return
	}
	*dst = v
}

// decodeList decodes a list entry by entry, dropping null or malformed
// entries and keeping their siblings.
func decodeList[T any](fields map[string]json.RawMessage, key string, dst *[]T) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Debug().Str("field", key).Err(err).Msg("dropping malformed context field")
		return
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		if isNull(item) {
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			log.Debug().Str("field", key).Int("index", i).Err(err).Msg("dropping malformed context entry")
			continue
		}
		out = append(out, v)
	}
	*dst = out
}

func rawField(fields map[string]json.RawMessage, key string) json.RawMessage {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// normalizeYAML rewrites map[any]any nodes (non-string YAML keys) into
// map[string]any so the tree can be marshaled as JSON.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeYAML(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalizeYAML(child)
		}
		return t
	default:
		return v
	}
}
