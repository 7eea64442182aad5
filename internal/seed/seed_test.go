package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
	"github.com/tbourn/go-mentorship-backend/internal/services"
)

const sample = `
admins: [1001, 1002]
support_agents:
  - chat_id: 5151
    display_name: Helpdesk
subjects: [Databases, Compilers]
mentors:
  - chat_id: 4242
    display_name: Dr. Ada
    subjects: [Databases, Networks]
`

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr string
	}{
		{name: "sample", in: sample},
		{name: "empty", in: "  \n"},
		{name: "unknown key", in: "admin: [1]", wantErr: "field admin not found"},
		{name: "zero admin", in: "admins: [0]", wantErr: "admins[0]"},
		{name: "zero agent", in: "support_agents: [{display_name: x}]", wantErr: "support_agents[0]"},
		{name: "zero mentor", in: "mentors: [{display_name: x}]", wantErr: "mentors[0]"},
		{name: "bad yaml", in: "admins: [1", wantErr: "decode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err=%v; want containing %q", err, tc.wantErr)
			}
		})
	}

	f, _ := Parse([]byte(sample))
	if len(f.Admins) != 2 || len(f.SupportAgents) != 1 || len(f.Subjects) != 2 || len(f.Mentors) != 1 {
		t.Fatalf("decoded: %+v", f)
	}
	if f.Mentors[0].DisplayName != "Dr. Ada" || len(f.Mentors[0].Subjects) != 2 {
		t.Fatalf("mentor: %+v", f.Mentors[0])
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestApply_Idempotent(t *testing.T) {
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "seed_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(db) })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	catalog := services.NewCatalogService(db, nil)
	party := services.NewPartyService(db, catalog, services.NewWorkService(db, catalog, false))

	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ctx := context.Background()
	for run := 1; run <= 2; run++ {
		r, err := Apply(ctx, f, catalog, party)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if r != (Report{Admins: 2, Agents: 1, Subjects: 2, Mentors: 1}) {
			t.Fatalf("run %d report: %+v", run, r)
		}
	}

	counts := []struct {
		model any
		want  int64
	}{
		{&domain.Admin{}, 2},
		{&domain.SupportAgent{}, 1},
		{&domain.Mentor{}, 1},
		{&domain.Subject{}, 3},
	}
	for _, c := range counts {
		var n int64
		if err := db.Model(c.model).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != c.want {
			t.Fatalf("%T count = %d; want %d", c.model, n, c.want)
		}
	}

	// Databases: created by the subject list, then linked once to the mentor.
	var s domain.Subject
	if err := db.First(&s, "name = ?", "Databases").Error; err != nil {
		t.Fatalf("load subject: %v", err)
	}
	if s.UsageCount != 2 {
		t.Fatalf("Databases usage = %d; want 2", s.UsageCount)
	}
}

type failingDir struct{ *services.PartyService }

func (failingDir) AddAdmin(context.Context, int64) (*domain.Admin, error) {
	return nil, services.ErrDependencyUnavailable
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	r, err := Apply(context.Background(), File{Admins: []int64{1}, Subjects: []string{"x"}}, nil, failingDir{})
	if !errors.Is(err, services.ErrDependencyUnavailable) {
		t.Fatalf("err=%v", err)
	}
	if r != (Report{}) {
		t.Fatalf("report: %+v", r)
	}
}
