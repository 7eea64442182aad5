package repo

import (
	"context"
	"testing"
)

func TestCensus_CountsEveryTable(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	empty, err := Census(ctx, db)
	if err != nil {
		t.Fatalf("Census on empty store: %v", err)
	}
	if empty.Subjects+empty.Students+empty.Mentors+empty.Pending+empty.Accepted+empty.Ideas+empty.OpenRequests != 0 {
		t.Fatalf("expected zero counts, got %+v", empty)
	}

	_, _ = UpsertSubject(ctx, db, "SQL")
	m, _, _ := UpsertMentor(ctx, db, "M", 1)
	s1, _ := UpsertStudent(ctx, db, 2, "a")
	s2, _ := UpsertStudent(ctx, db, 3, "b")
	_, _ = CreatePending(ctx, db, s1.ID, "p1")
	_, _ = CreatePending(ctx, db, s1.ID, "p2")
	_, _, _ = InsertAccepted(ctx, db, s2.ID, "acc")
	_, _ = CreateIdea(ctx, db, m.ID, "idea")
	_, _, _ = FileSupportRequest(ctx, db, 4, "c", "help")

	c, err := Census(ctx, db)
	if err != nil {
		t.Fatalf("Census: %v", err)
	}
	if c.Subjects != 1 || c.Mentors != 1 || c.Students != 2 || c.Pending != 2 ||
		c.Accepted != 1 || c.Ideas != 1 || c.OpenRequests != 1 {
		t.Fatalf("unexpected census: %+v", c)
	}
}

func TestCensus_ErrorWithoutSchema(t *testing.T) {
	db := newIdemDB(t) // no migrations
	if _, err := Census(context.Background(), db); err == nil {
		t.Fatalf("expected error without tables")
	}
}
