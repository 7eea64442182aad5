// Package seed applies an optional YAML bootstrap file at start-up: the
// admin list, support agents, the initial subject vocabulary and mentors
// with their subjects. Applying the same file twice leaves the store as it
// was after the first run.
//
//	admins: [1001, 1002]
//	support_agents:
//	  - chat_id: 5151
//	    display_name: Helpdesk
//	subjects: [Databases, Compilers]
//	mentors:
//	  - chat_id: 4242
//	    display_name: Dr. Ada
//	    subjects: [Databases]
package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/services"
)

// File is the decoded bootstrap document.
type File struct {
	Admins        []int64  `yaml:"admins"`
	SupportAgents []Agent  `yaml:"support_agents"`
	Subjects      []string `yaml:"subjects"`
	Mentors       []Mentor `yaml:"mentors"`
}

// Agent is a support agent entry.
type Agent struct {
	ChatID      int64  `yaml:"chat_id"`
	DisplayName string `yaml:"display_name"`
}

// Mentor is a mentor entry.
type Mentor struct {
	ChatID      int64    `yaml:"chat_id"`
	DisplayName string   `yaml:"display_name"`
	Subjects    []string `yaml:"subjects"`
}

// Catalog is the part of the catalog the bootstrap needs.
type Catalog interface {
	EnsureSubject(ctx context.Context, name string) (int64, error)
}

// Directory is the part of the party directory the bootstrap needs.
type Directory interface {
	AddAdmin(ctx context.Context, chatID int64) (*domain.Admin, error)
	AddSupportAgent(ctx context.Context, chatID int64, displayName string) (*domain.SupportAgent, error)
	AddMentor(ctx context.Context, in services.AddMentorInput) (*domain.MentorView, error)
}

// Report counts the entries applied.
type Report struct {
	Admins   int
	Agents   int
	Subjects int
	Mentors  int
}

// Parse decodes a bootstrap document. Unknown keys are rejected so that a
// typo does not silently skip a section.
func Parse(data []byte) (File, error) {
	var f File
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, fmt.Errorf("seed: decode: %w", err)
	}
	return f, f.validate()
}

// LoadFile reads and parses path.
func LoadFile(path string) (File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	f, err := Parse(content)
	if err != nil {
		return File{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return f, nil
}

func (f File) validate() error {
	for i, id := range f.Admins {
		if id == 0 {
			return fmt.Errorf("admins[%d]: chat_id must be non-zero", i)
		}
	}
	for i, a := range f.SupportAgents {
		if a.ChatID == 0 {
			return fmt.Errorf("support_agents[%d]: chat_id must be non-zero", i)
		}
	}
	for i, m := range f.Mentors {
		if m.ChatID == 0 {
			return fmt.Errorf("mentors[%d]: chat_id must be non-zero", i)
		}
	}
	return nil
}

// Apply writes f through the services. It stops at the first failure; every
// step is an upsert, so rerunning after a fix is safe.
func Apply(ctx context.Context, f File, catalog Catalog, dir Directory) (Report, error) {
	var r Report
	for _, id := range f.Admins {
		if _, err := dir.AddAdmin(ctx, id); err != nil {
			return r, fmt.Errorf("seed: admin %d: %w", id, err)
		}
		r.Admins++
	}
	for _, a := range f.SupportAgents {
		if _, err := dir.AddSupportAgent(ctx, a.ChatID, a.DisplayName); err != nil {
			return r, fmt.Errorf("seed: support agent %d: %w", a.ChatID, err)
		}
		r.Agents++
	}
	for _, name := range f.Subjects {
		if _, err := catalog.EnsureSubject(ctx, name); err != nil {
			return r, fmt.Errorf("seed: subject %q: %w", name, err)
		}
		r.Subjects++
	}
	for _, m := range f.Mentors {
		_, err := dir.AddMentor(ctx, services.AddMentorInput{
			ChatID:      m.ChatID,
			DisplayName: m.DisplayName,
			Subjects:    m.Subjects,
		})
		if err != nil {
			return r, fmt.Errorf("seed: mentor %d: %w", m.ChatID, err)
		}
		r.Mentors++
	}

	log.Ctx(ctx).Info().
		Int("admins", r.Admins).
		Int("support_agents", r.Agents).
		Int("subjects", r.Subjects).
		Int("mentors", r.Mentors).
		Msg("seed applied")
	return r, nil
}
