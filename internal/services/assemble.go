package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

// The assemble* functions build read views from rows that were already
// loaded. They do no I/O; the load* functions below fetch the rows.

func subjectRefs(rows []domain.Subject) []domain.SubjectRef {
	out := make([]domain.SubjectRef, len(rows))
	for i, r := range rows {
		out[i] = domain.SubjectRef{ID: r.ID, Name: r.Name}
	}
	return out
}

func refsOrEmpty(refs []domain.SubjectRef) []domain.SubjectRef {
	if refs == nil {
		return []domain.SubjectRef{}
	}
	return refs
}

func assemblePending(w domain.PendingWork, refs []domain.SubjectRef) domain.WorkView {
	return domain.WorkView{
		ID:          w.ID,
		StudentID:   w.StudentID,
		State:       domain.StatePending,
		Description: w.Description,
		Subjects:    refsOrEmpty(refs),
	}
}

func assembleAccepted(w domain.AcceptedWork, refs []domain.SubjectRef) domain.WorkView {
	return domain.WorkView{
		ID:          w.ID,
		StudentID:   w.StudentID,
		State:       domain.StateAccepted,
		Description: w.Description,
		Subjects:    refsOrEmpty(refs),
	}
}

// workRows is everything needed to assemble the work of a set of students.
type workRows struct {
	pending      []domain.PendingWork
	accepted     []domain.AcceptedWork
	pendingRefs  map[int64][]domain.SubjectRef
	acceptedRefs map[int64][]domain.SubjectRef
}

// byStudent groups the rows into views keyed by student id.
func (r workRows) byStudent() (pending map[int64][]domain.WorkView, accepted map[int64]*domain.WorkView) {
	pending = make(map[int64][]domain.WorkView)
	accepted = make(map[int64]*domain.WorkView)
	for _, w := range r.pending {
		pending[w.StudentID] = append(pending[w.StudentID], assemblePending(w, r.pendingRefs[w.ID]))
	}
	for _, w := range r.accepted {
		v := assembleAccepted(w, r.acceptedRefs[w.ID])
		accepted[w.StudentID] = &v
	}
	return pending, accepted
}

func assembleStudents(students []domain.Student, work workRows) []domain.StudentView {
	pending, accepted := work.byStudent()
	out := make([]domain.StudentView, 0, len(students))
	for _, s := range students {
		p := pending[s.ID]
		if p == nil {
			p = []domain.WorkView{}
		}
		out = append(out, domain.StudentView{
			ID:          s.ID,
			DisplayName: s.DisplayName,
			ChatID:      s.ChatID,
			Pending:     p,
			Accepted:    accepted[s.ID],
		})
	}
	return out
}

func assembleMentors(
	mentors []domain.Mentor,
	mentorRefs map[int64][]domain.SubjectRef,
	edges []domain.Supervision,
	students []domain.Student,
	work workRows,
) []domain.MentorView {
	byID := make(map[int64]domain.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	_, accepted := work.byStudent()

	supervised := make(map[int64][]domain.SupervisedStudent)
	for _, e := range edges {
		s, ok := byID[e.StudentID]
		if !ok {
			continue
		}
		supervised[e.MentorID] = append(supervised[e.MentorID], domain.SupervisedStudent{
			ID:          s.ID,
			DisplayName: s.DisplayName,
			ChatID:      s.ChatID,
			Work:        accepted[s.ID],
		})
	}

	out := make([]domain.MentorView, 0, len(mentors))
	for _, m := range mentors {
		st := supervised[m.ID]
		if st == nil {
			st = []domain.SupervisedStudent{}
		}
		out = append(out, domain.MentorView{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			ChatID:      m.ChatID,
			Load:        m.Load,
			Archived:    m.Archived,
			Subjects:    refsOrEmpty(mentorRefs[m.ID]),
			Students:    st,
		})
	}
	return out
}

func assembleIdeas(ideas []domain.Idea, refs map[int64][]domain.SubjectRef) []domain.IdeaView {
	out := make([]domain.IdeaView, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, domain.IdeaView{
			ID:          i.ID,
			MentorID:    i.MentorID,
			Description: i.Description,
			Subjects:    refsOrEmpty(refs[i.ID]),
		})
	}
	return out
}

// ----------------------------------------------------------------------------
// Loaders

func loadWork(ctx context.Context, db *gorm.DB, studentIDs []int64, acceptedOnly bool) (workRows, error) {
	var (
		r   workRows
		err error
	)
	if !acceptedOnly {
		if r.pending, err = repo.PendingOfStudents(ctx, db, studentIDs); err != nil {
			return r, err
		}
		ids := make([]int64, len(r.pending))
		for i, w := range r.pending {
			ids[i] = w.ID
		}
		if r.pendingRefs, err = repo.PendingLinks.Refs(ctx, db, ids); err != nil {
			return r, err
		}
	}
	if r.accepted, err = repo.AcceptedOfStudents(ctx, db, studentIDs); err != nil {
		return r, err
	}
	ids := make([]int64, len(r.accepted))
	for i, w := range r.accepted {
		ids[i] = w.ID
	}
	r.acceptedRefs, err = repo.AcceptedLinks.Refs(ctx, db, ids)
	return r, err
}

func loadStudentViews(ctx context.Context, db *gorm.DB, students []domain.Student) ([]domain.StudentView, error) {
	ids := make([]int64, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	work, err := loadWork(ctx, db, ids, false)
	if err != nil {
		return nil, err
	}
	return assembleStudents(students, work), nil
}

func loadMentorViews(ctx context.Context, db *gorm.DB, mentors []domain.Mentor) ([]domain.MentorView, error) {
	ids := make([]int64, len(mentors))
	for i, m := range mentors {
		ids[i] = m.ID
	}
	refs, err := repo.MentorLinks.Refs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	edges, err := repo.SupervisionEdges(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	studentIDs := make([]int64, 0, len(edges))
	for _, e := range edges {
		studentIDs = append(studentIDs, e.StudentID)
	}
	studentIDs = uniqueIDs(studentIDs)
	students, err := repo.StudentsByIDs(ctx, db, studentIDs)
	if err != nil {
		return nil, err
	}
	work, err := loadWork(ctx, db, studentIDs, true)
	if err != nil {
		return nil, err
	}
	return assembleMentors(mentors, refs, edges, students, work), nil
}

func loadIdeaViews(ctx context.Context, db *gorm.DB, ideas []domain.Idea) ([]domain.IdeaView, error) {
	ids := make([]int64, len(ideas))
	for i, idea := range ideas {
		ids[i] = idea.ID
	}
	refs, err := repo.IdeaLinks.Refs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	return assembleIdeas(ideas, refs), nil
}
