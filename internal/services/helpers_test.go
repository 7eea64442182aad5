package services

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

// ---------- test helpers ----------

// engine bundles every service over one store, wired like cmd/server does.
type engine struct {
	db      *gorm.DB
	catalog *CatalogService
	work    *WorkService
	party   *PartyService
	ideas   *IdeaService
	support *SupportService
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "services_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(db) })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newEngine(t *testing.T, rejectDecrementsLoad bool) *engine {
	t.Helper()
	db := newServiceDB(t)
	catalog := NewCatalogService(db, nil)
	work := NewWorkService(db, catalog, rejectDecrementsLoad)
	return &engine{
		db:      db,
		catalog: catalog,
		work:    work,
		party:   NewPartyService(db, catalog, work),
		ideas:   NewIdeaService(db, catalog),
		support: NewSupportService(db),
	}
}

func count(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func countTable(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func subjectByName(t *testing.T, db *gorm.DB, name string) domain.Subject {
	t.Helper()
	var s domain.Subject
	if err := db.First(&s, "name = ?", name).Error; err != nil {
		t.Fatalf("subject %q: %v", name, err)
	}
	return s
}

func mentorLoad(t *testing.T, db *gorm.DB, id int64) int64 {
	t.Helper()
	m, err := repo.GetMentor(context.Background(), db, id)
	if err != nil {
		t.Fatalf("get mentor %d: %v", id, err)
	}
	return m.Load
}

func mustMentor(t *testing.T, e *engine, chatID int64, subjects ...string) domain.MentorView {
	t.Helper()
	m, err := e.party.AddMentor(context.Background(), AddMentorInput{
		DisplayName: "Mentor",
		ChatID:      chatID,
		Subjects:    subjects,
	})
	if err != nil {
		t.Fatalf("AddMentor: %v", err)
	}
	return *m
}

func mustWork(t *testing.T, e *engine, chatID int64, desc string, subjects ...string) domain.WorkView {
	t.Helper()
	w, err := e.work.CreateWork(context.Background(), CreateWorkInput{
		ChatID:       chatID,
		DisplayName:  "Student",
		SubjectNames: subjects,
		Description:  desc,
	})
	if err != nil {
		t.Fatalf("CreateWork: %v", err)
	}
	return *w
}

func refNames(refs []domain.SubjectRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
