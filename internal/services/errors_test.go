package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

func TestEntityErrorsWrapKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrSubjectNotFound, ErrNotFound},
		{ErrMentorNotFound, ErrNotFound},
		{ErrStudentNotFound, ErrNotFound},
		{ErrWorkNotFound, ErrNotFound},
		{ErrIdeaNotFound, ErrNotFound},
		{ErrAdminNotFound, ErrNotFound},
		{ErrSupportAgentNotFound, ErrNotFound},
		{ErrRequestNotFound, ErrNotFound},
		{ErrEmptySubjectName, ErrInvalidInput},
		{ErrEmptyDescription, ErrInvalidInput},
	}
	for _, tc := range tests {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%v should match %v", tc.err, tc.kind)
		}
	}
}

func TestStoreErr(t *testing.T) {
	if storeErr("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if err := storeErr("op", ErrMentorNotFound); err != ErrMentorNotFound {
		t.Fatalf("classified errors must pass through, got %v", err)
	}
	cause := errors.New("connection refused")
	err := storeErr("get mentor", cause)
	if !errors.Is(err, ErrDependencyUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected dependency error wrapping the cause, got %v", err)
	}
}

func TestLookupErr(t *testing.T) {
	if err := lookupErr("get", fmt.Errorf("wrapped: %w", repo.ErrNotFound), ErrWorkNotFound); err != ErrWorkNotFound {
		t.Fatalf("expected ErrWorkNotFound, got %v", err)
	}
	if err := lookupErr("get", errors.New("boom"), ErrWorkNotFound); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestNormalizeNames(t *testing.T) {
	got, err := normalizeNames([]string{" Go", "SQL", "Go ", "sql"})
	if err != nil {
		t.Fatalf("normalizeNames: %v", err)
	}
	if !equalStrings(got, []string{"Go", "SQL", "sql"}) {
		t.Fatalf("got %v", got)
	}
	if _, err := normalizeNames([]string{"Go", "\t"}); !errors.Is(err, ErrEmptySubjectName) {
		t.Fatalf("expected ErrEmptySubjectName, got %v", err)
	}
	if err := invalid(errors.New("bad")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid() must wrap ErrInvalidInput")
	}
}

func TestOperations_ClosedStoreIsUnavailable(t *testing.T) {
	e := newEngine(t, false)
	census := &CensusService{DB: e.db}
	sqlDB, err := e.db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	ctx := context.Background()

	ops := []struct {
		name string
		call func() error
	}{
		{"AddSubject", func() error { _, err := e.catalog.AddSubject(ctx, "Go"); return err }},
		{"RemoveSubject", func() error { return e.catalog.RemoveSubject(ctx, 1) }},
		{"ArchiveSubject", func() error { return e.catalog.ArchiveSubject(ctx, 1) }},
		{"GetSubjects", func() error { _, err := e.catalog.GetSubjects(ctx, SubjectFilter{}); return err }},
		{"SuggestSubjects", func() error { _, err := e.catalog.SuggestSubjects(ctx, "go", 3); return err }},
		{"CreateWork", func() error {
			_, err := e.work.CreateWork(ctx, CreateWorkInput{ChatID: 1, SubjectNames: []string{"Go"}, Description: "d"})
			return err
		}},
		{"AcceptWork", func() error { _, err := e.work.AcceptWork(ctx, 1, 1); return err }},
		{"RejectStudent", func() error { _, err := e.work.RejectStudent(ctx, 1, 1); return err }},
		{"ReadmitWork", func() error { _, err := e.work.ReadmitWork(ctx, 1, nil); return err }},
		{"ModifyWork", func() error {
			_, err := e.work.ModifyWork(ctx, ModifyWorkInput{WorkID: 1, SubjectNames: []string{"Go"}, Description: "d"})
			return err
		}},
		{"RemoveWork", func() error { _, err := e.work.RemoveWork(ctx, 1); return err }},
		{"GetWork", func() error { _, err := e.work.GetWork(ctx, 1, domain.StatePending); return err }},
		{"AddMentor", func() error {
			_, err := e.party.AddMentor(ctx, AddMentorInput{ChatID: 1, Subjects: []string{"Go"}})
			return err
		}},
		{"AddMentorSubjects", func() error { _, err := e.party.AddMentorSubjects(ctx, 1, []string{"Go"}); return err }},
		{"RemoveMentorSubjects", func() error { _, err := e.party.RemoveMentorSubjects(ctx, 1, []int64{1}); return err }},
		{"GetMentors", func() error { _, err := e.party.GetMentors(ctx, MentorFilter{}); return err }},
		{"RemoveMentor", func() error { _, err := e.party.RemoveMentor(ctx, 1); return err }},
		{"GetStudents", func() error { _, err := e.party.GetStudents(ctx, StudentFilter{}); return err }},
		{"RemoveStudent", func() error { _, err := e.party.RemoveStudent(ctx, 1); return err }},
		{"RemoveSupportAgent", func() error { return e.party.RemoveSupportAgent(ctx, 1) }},
		{"CreateIdea", func() error {
			_, err := e.ideas.CreateIdea(ctx, CreateIdeaInput{MentorID: 1, Description: "d", Subjects: []string{"Go"}})
			return err
		}},
		{"RemoveIdea", func() error { return e.ideas.RemoveIdea(ctx, 1) }},
		{"AssignRequest", func() error { _, err := e.support.AssignRequest(ctx, 1, 1); return err }},
		{"Stats", func() error { _, err := census.Stats(ctx); return err }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			if err := op.call(); !errors.Is(err, ErrDependencyUnavailable) {
				t.Fatalf("%s: expected ErrDependencyUnavailable, got %v", op.name, err)
			}
		})
	}
}
