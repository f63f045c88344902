package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// personaFields holds the YAML frontmatter of a markdown persona file.
type personaFields struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ParsePersona splits a markdown persona into its frontmatter and prompt
// body. The file must start with "---\n", followed by YAML, then "---",
// then the body.
func ParsePersona(raw string) (name, description, body string, err error) {
	const delimiter = "---"
	raw = strings.TrimPrefix(raw, "\ufeff")
	if !strings.HasPrefix(raw, delimiter) {
		return "", "", "", fmt.Errorf("missing opening frontmatter delimiter")
	}

	firstNewline := strings.Index(raw, "\n")
	if firstNewline < 0 {
		return "", "", "", fmt.Errorf("missing content after opening delimiter")
	}
	rest := raw[firstNewline+1:]

	var yamlBlock string
	if strings.HasPrefix(rest, delimiter) {
		rest = rest[len(delimiter):]
	} else {
		idx := strings.Index(rest, "\n"+delimiter)
		if idx < 0 {
			return "", "", "", fmt.Errorf("missing closing frontmatter delimiter")
		}
		yamlBlock, rest = rest[:idx], rest[idx+1+len(delimiter):]
	}
	body = strings.TrimSpace(rest)

	var fm personaFields
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return "", "", "", fmt.Errorf("parse frontmatter YAML: %w", err)
	}
	return fm.Name, fm.Description, body, nil
}

// LoadPersonas reads every *.md file in dir as a read-only agent whose id
// is the file stem. A missing directory yields no agents; files that fail
// to parse are skipped with a warning.
func LoadPersonas(dir string) ([]Agent, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading persona directory: %w", err)
	}

	var out []Agent
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable persona")
			continue
		}
		name, desc, body, err := ParsePersona(string(data))
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping malformed persona")
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if name == "" {
			name = id
		}
		a := Agent{ID: id, Name: name, Description: desc, Prompt: body, Source: path}
		if info, err := e.Info(); err == nil {
			a.CreatedAt = info.ModTime().UnixMilli()
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
