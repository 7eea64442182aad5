package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

func TestFileRequest_IdempotentPerChat(t *testing.T) {
	e := newEngine(t, false)
	ctx := context.Background()

	r1, created, err := e.support.FileRequest(ctx, FileRequestInput{ChatID: 9, DisplayName: "Bob", Issue: " cannot log in "})
	if err != nil || !created || r1.Issue != "cannot log in" {
		t.Fatalf("FileRequest: %+v created=%v err=%v", r1, created, err)
	}
	r2, created, err := e.support.FileRequest(ctx, FileRequestInput{ChatID: 9, Issue: "another"})
	if err != nil || created || r2.ID != r1.ID || r2.Issue != r1.Issue {
		t.Fatalf("second filing should return the open request: %+v created=%v err=%v", r2, created, err)
	}
	if _, _, err := e.support.FileRequest(ctx, FileRequestInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSupportQueue_AssignListResolve(t *testing.T) {
	e := newEngine(t, false)
	ctx := context.Background()

	agent, _ := e.party.AddSupportAgent(ctx, 1, "Ann")
	a, _, _ := e.support.FileRequest(ctx, FileRequestInput{ChatID: 10})
	_, _, _ = e.support.FileRequest(ctx, FileRequestInput{ChatID: 11})

	got, err := e.support.AssignRequest(ctx, a.ID, agent.ID)
	if err != nil || got.AssignedSupportID == nil || *got.AssignedSupportID != agent.ID {
		t.Fatalf("AssignRequest: %+v %v", got, err)
	}
	if _, err := e.support.AssignRequest(ctx, 999, agent.ID); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
	if _, err := e.support.AssignRequest(ctx, a.ID, 999); !errors.Is(err, ErrSupportAgentNotFound) {
		t.Fatalf("expected ErrSupportAgentNotFound, got %v", err)
	}

	mine, _ := e.support.ListRequestsFor(ctx, agent.ID)
	if len(mine) != 1 || mine[0].ID != a.ID {
		t.Fatalf("ListRequestsFor: %+v", mine)
	}
	all, _ := e.support.ListOpenRequests(ctx)
	if len(all) != 2 {
		t.Fatalf("ListOpenRequests: %+v", all)
	}

	if err := e.support.ResolveRequest(ctx, a.ID); err != nil {
		t.Fatalf("ResolveRequest: %v", err)
	}
	if err := e.support.ResolveRequest(ctx, a.ID); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
	if n := count(t, e.db, &domain.SupportRequest{}, ""); n != 1 {
		t.Fatalf("requests = %d; want 1", n)
	}
}

func TestIdeas_CreateListRemove(t *testing.T) {
	e := newEngine(t, false)
	ctx := context.Background()

	m1 := mustMentor(t, e, 1)
	m2 := mustMentor(t, e, 2)
	i1, err := e.ideas.CreateIdea(ctx, CreateIdeaInput{MentorID: m1.ID, Description: "compiler in Go", Subjects: []string{"Go", "Compilers"}})
	if err != nil {
		t.Fatalf("CreateIdea: %v", err)
	}
	if !equalStrings(refNames(i1.Subjects), []string{"Compilers", "Go"}) {
		t.Fatalf("idea subjects = %v", refNames(i1.Subjects))
	}
	_, _ = e.ideas.CreateIdea(ctx, CreateIdeaInput{MentorID: m2.ID, Description: "query planner", Subjects: []string{"SQL"}})

	tests := []struct {
		name string
		f    IdeaFilter
		want int
	}{
		{"all", IdeaFilter{}, 2},
		{"by id", IdeaFilter{ID: i1.ID}, 1},
		{"by mentor", IdeaFilter{MentorID: m2.ID}, 1},
		{"by subject", IdeaFilter{SubjectID: subjectByName(t, e.db, "Go").ID}, 1},
		{"mentor and subject mismatch", IdeaFilter{MentorID: m2.ID, SubjectID: subjectByName(t, e.db, "Go").ID}, 0},
		{"missing id", IdeaFilter{ID: 999}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.ideas.GetIdeas(ctx, tc.f)
			if err != nil || len(got) != tc.want {
				t.Fatalf("GetIdeas(%+v) = %d ideas, err=%v; want %d", tc.f, len(got), err, tc.want)
			}
		})
	}

	if err := e.ideas.RemoveIdea(ctx, i1.ID); err != nil {
		t.Fatalf("RemoveIdea: %v", err)
	}
	if got := subjectByName(t, e.db, "Go").UsageCount; got != 0 {
		t.Fatalf("Go usage = %d; want 0", got)
	}
	if err := e.ideas.RemoveIdea(ctx, i1.ID); !errors.Is(err, ErrIdeaNotFound) {
		t.Fatalf("expected ErrIdeaNotFound, got %v", err)
	}
	if _, err := e.ideas.CreateIdea(ctx, CreateIdeaInput{MentorID: 999, Description: "x"}); !errors.Is(err, ErrMentorNotFound) {
		t.Fatalf("expected ErrMentorNotFound, got %v", err)
	}
}

func TestCensus_PublishesGauges(t *testing.T) {
	e := newEngine(t, false)
	ctx := context.Background()

	m := mustMentor(t, e, 1, "Go")
	w := mustWork(t, e, 2, "W", "Go")
	_ = mustWork(t, e, 3, "P")
	if _, err := e.work.AcceptWork(ctx, m.ID, w.ID); err != nil {
		t.Fatalf("AcceptWork: %v", err)
	}

	c, err := (&CensusService{DB: e.db}).Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := domain.Census{Subjects: 1, Students: 2, Mentors: 1, Pending: 1, Accepted: 1}
	if c != want {
		t.Fatalf("census = %+v; want %+v", c, want)
	}
	if got := testutil.ToFloat64(censusRows.WithLabelValues("accepted_works")); got != 1 {
		t.Fatalf("accepted gauge = %v; want 1", got)
	}
}
