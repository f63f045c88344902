// Package agents manages the personas whose instructions can be prepended
// to a prompt as an agent role. Editable agents live in an agent.json file;
// markdown persona files in a directory add read-only agents.
package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotFound is returned when no agent has the requested id.
	ErrNotFound = errors.New("agent not found")
	// ErrExists is returned when adding an agent whose id is taken.
	ErrExists = errors.New("agent already exists")
	// ErrReadOnly is returned when modifying a persona-file agent.
	ErrReadOnly = errors.New("agent is defined by a persona file")
)

// Agent is a named persona. CreatedAt is Unix milliseconds.
type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Prompt      string `json:"prompt"`
	CreatedAt   int64  `json:"createdAt,omitempty"`

	// Source is the persona file path; empty for agent.json entries.
	Source string `json:"-"`
}

// ReadOnly reports whether the agent comes from a persona file.
func (a Agent) ReadOnly() bool { return a.Source != "" }

// Patch carries optional updates. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
	Prompt      *string
}

type fileConfig struct {
	Agents          map[string]*Agent `json:"agents"`
	SelectedAgentID string            `json:"selectedAgentId,omitempty"`
}

// Store reads and writes agent.json. It is safe for concurrent use within a
// process.
type Store struct {
	mu         sync.Mutex
	path       string
	personaDir string
	now        func() time.Time
	newID      func() string
}

// NewStore returns a Store backed by the agent.json at path and the
// persona directory personaDir (which may be empty).
func NewStore(path, personaDir string) *Store {
	return &Store{
		path:       path,
		personaDir: personaDir,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// List returns every agent, newest first.
func (s *Store) List() ([]Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.read()
	personas, err := LoadPersonas(s.personaDir)
	if err != nil {
		return nil, err
	}

	out := make([]Agent, 0, len(cfg.Agents)+len(personas))
	for id, a := range cfg.Agents {
		if a.ID == "" {
			a.ID = id
		}
		out = append(out, *a)
	}
	out = append(out, personas...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Get returns the agent with the given id.
func (s *Store) Get(id string) (Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(s.read(), id)
}

func (s *Store) get(cfg *fileConfig, id string) (Agent, error) {
	if a, ok := cfg.Agents[id]; ok {
		out := *a
		if out.ID == "" {
			out.ID = id
		}
		return out, nil
	}
	personas, err := LoadPersonas(s.personaDir)
	if err != nil {
		return Agent{}, err
	}
	for _, p := range personas {
		if p.ID == id {
			return p, nil
		}
	}
	return Agent{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add stores a new agent. An empty id is replaced by a generated one and a
// zero CreatedAt is stamped with the current time.
func (s *Store) Add(a Agent) (Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.read()
	if a.ID == "" {
		a.ID = s.newID()
	}
	if _, err := s.get(cfg, a.ID); err == nil {
		return Agent{}, fmt.Errorf("%w: %s", ErrExists, a.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return Agent{}, err
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = s.now().UnixMilli()
	}
	a.Source = ""
	cfg.Agents[a.ID] = &a

	if err := s.write(cfg); err != nil {
		return Agent{}, err
	}
	log.Debug().Str("agent", a.ID).Msg("added agent")
	return a, nil
}

// Update applies p to the agent with the given id. The id and creation time
// never change.
func (s *Store) Update(id string, p Patch) (Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.read()
	a, ok := cfg.Agents[id]
	if !ok {
		if existing, err := s.get(cfg, id); err == nil && existing.ReadOnly() {
			return Agent{}, fmt.Errorf("%w: %s", ErrReadOnly, id)
		}
		return Agent{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Prompt != nil {
		a.Prompt = *p.Prompt
	}
	if err := s.write(cfg); err != nil {
		return Agent{}, err
	}
	return *a, nil
}

// Delete removes the agent with the given id. It reports false when no
// such agent exists. Deleting the selected agent clears the selection.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.read()
	if _, ok := cfg.Agents[id]; !ok {
		if existing, err := s.get(cfg, id); err == nil && existing.ReadOnly() {
			return false, fmt.Errorf("%w: %s", ErrReadOnly, id)
		}
		return false, nil
	}
	delete(cfg.Agents, id)
	if cfg.SelectedAgentID == id {
		cfg.SelectedAgentID = ""
	}
	if err := s.write(cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Selected returns the id of the selected agent, or the empty string.
func (s *Store) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().SelectedAgentID
}

// Select marks id as the selected agent. An empty id clears the selection.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.read()
	if id != "" {
		if _, err := s.get(cfg, id); err != nil {
			return err
		}
	}
	cfg.SelectedAgentID = id
	return s.write(cfg)
}

// Resolve returns the prompt for the agent with the given id, or for the
// selected agent when id is empty. With neither, it returns "".
func (s *Store) Resolve(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.read()
	if id == "" {
		id = cfg.SelectedAgentID
	}
	if id == "" {
		return "", nil
	}
	a, err := s.get(cfg, id)
	if err != nil {
		return "", err
	}
	return a.Prompt, nil
}

// read loads agent.json. A missing or unreadable file reads as empty and
// null agent entries are dropped.
func (s *Store) read() *fileConfig {
	cfg := &fileConfig{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			log.Warn().Err(jerr).Str("path", s.path).Msg("failed to parse agent file, treating as empty")
			cfg = &fileConfig{}
		}
	case !os.IsNotExist(err):
		log.Warn().Err(err).Str("path", s.path).Msg("failed to read agent file, treating as empty")
	}
	if cfg.Agents == nil {
		cfg.Agents = make(map[string]*Agent)
	}
	for id, a := range cfg.Agents {
		if a == nil {
			log.Warn().Str("path", s.path).Str("agent", id).Msg("dropping empty agent entry")
			delete(cfg.Agents, id)
		}
	}
	return cfg
}

func (s *Store) write(cfg *fileConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating agent directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding agents: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing agent file: %w", err)
	}
	return nil
}
