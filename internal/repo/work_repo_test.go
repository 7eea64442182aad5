package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPendingLifecycle(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	st, err := UpsertStudent(ctx, db, 100, "Ann")
	if err != nil {
		t.Fatalf("UpsertStudent: %v", err)
	}
	again, err := UpsertStudent(ctx, db, 100, "Renamed")
	if err != nil || again.ID != st.ID || again.DisplayName != "Ann" {
		t.Fatalf("UpsertStudent must be a no-op for a known chat: %+v err=%v", again, err)
	}

	p1, _ := CreatePending(ctx, db, st.ID, "first")
	p2, _ := CreatePending(ctx, db, st.ID, "second")
	p3, _ := CreatePending(ctx, db, st.ID, "third")

	siblings, err := PendingIDsOfStudent(ctx, db, st.ID, p2.ID)
	if err != nil {
		t.Fatalf("PendingIDsOfStudent: %v", err)
	}
	if len(siblings) != 2 || siblings[0] != p1.ID || siblings[1] != p3.ID {
		t.Fatalf("unexpected siblings: %v", siblings)
	}

	if n, err := UpdatePendingDescription(ctx, db, p1.ID, "edited"); err != nil || n != 1 {
		t.Fatalf("UpdatePendingDescription: n=%d err=%v", n, err)
	}
	got, _ := GetPendingForUpdate(ctx, db, p1.ID)
	if got.Description != "edited" {
		t.Fatalf("description not updated: %+v", got)
	}

	if n, err := DeletePending(ctx, db, p1.ID, p3.ID); err != nil || n != 2 {
		t.Fatalf("DeletePending: n=%d err=%v", n, err)
	}
	if _, err := GetPending(ctx, db, p1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	pending, accepted, err := WorkCounts(ctx, db, st.ID)
	if err != nil || pending != 1 || accepted != 0 {
		t.Fatalf("WorkCounts = (%d, %d, %v); want (1, 0, nil)", pending, accepted, err)
	}

	rows, _ := PendingOfStudents(ctx, db, []int64{st.ID})
	if len(rows) != 1 || rows[0].ID != p2.ID {
		t.Fatalf("unexpected PendingOfStudents: %+v", rows)
	}
}

func TestInsertAccepted_SecondInsertIsAbsorbed(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	st, _ := UpsertStudent(ctx, db, 7, "Bo")

	first, inserted, err := InsertAccepted(ctx, db, st.ID, "thesis")
	if err != nil || !inserted || first.ID == 0 {
		t.Fatalf("first InsertAccepted: w=%+v inserted=%v err=%v", first, inserted, err)
	}

	second, inserted, err := InsertAccepted(ctx, db, st.ID, "other")
	if err != nil {
		t.Fatalf("second InsertAccepted: %v", err)
	}
	if inserted || second.ID != first.ID || second.Description != "thesis" {
		t.Fatalf("expected the existing row back, got %+v inserted=%v", second, inserted)
	}

	var n int64
	db.Table("accepted_works").Where("student_id = ?", st.ID).Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly one accepted row, got %d", n)
	}

	got, err := GetAcceptedOfStudent(ctx, db, st.ID)
	if err != nil || got.ID != first.ID {
		t.Fatalf("GetAcceptedOfStudent: %+v err=%v", got, err)
	}
	if _, err := GetAccepted(ctx, db, first.ID); err != nil {
		t.Fatalf("GetAccepted: %v", err)
	}
	list, _ := AcceptedOfStudents(ctx, db, []int64{st.ID, 999})
	if len(list) != 1 {
		t.Fatalf("expected one accepted row in batch lookup, got %d", len(list))
	}

	if n, err := DeleteAccepted(ctx, db, first.ID); err != nil || n != 1 {
		t.Fatalf("DeleteAccepted: n=%d err=%v", n, err)
	}
	if _, err := GetAcceptedOfStudent(ctx, db, st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePending_UnknownStudentViolatesForeignKey(t *testing.T) {
	db := newRepoDB(t)
	if _, err := CreatePending(context.Background(), db, 4242, "orphan"); err == nil {
		t.Fatalf("expected FK violation for unknown student")
	}
}

func TestLockPending(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	st, _ := UpsertStudent(ctx, db, 300, "Cy")
	p, _ := CreatePending(ctx, db, st.ID, "locked")

	got, err := LockPending(ctx, db, p.ID)
	if err != nil || got.ID != p.ID || got.StudentID != st.ID {
		t.Fatalf("LockPending = %+v err=%v", got, err)
	}
	if _, err := LockPending(ctx, db, p.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing row, got %v", err)
	}
	if _, err := GetStudentForUpdate(ctx, db, st.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing student, got %v", err)
	}
}

// sqlRecorder is a gorm logger that keeps every rendered statement.
type sqlRecorder struct{ stmts []string }

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface      { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.stmts = append(r.stmts, sql)
}

func TestLockPending_StudentLockedBeforePendingOnPostgres(t *testing.T) {
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=app dbname=app sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := LockPending(context.Background(), db, 7); err != nil {
		t.Fatalf("LockPending: %v", err)
	}
	if len(rec.stmts) != 3 {
		t.Fatalf("expected 3 statements, got %q", rec.stmts)
	}
	want := []struct {
		table  string
		locked bool
	}{
		{`"pending_works"`, false},
		{`"students"`, true},
		{`"pending_works"`, true},
	}
	for i, w := range want {
		s := rec.stmts[i]
		if !strings.Contains(s, w.table) || strings.Contains(s, "FOR UPDATE") != w.locked {
			t.Fatalf("statement %d = %q; want table %s locked=%v", i, s, w.table, w.locked)
		}
	}
}
