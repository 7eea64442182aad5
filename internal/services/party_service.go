// Package services – PartyService
//
// This file implements the party directory: mentors, students, admins and
// support agents. Mentor and student reads return assembled views with
// subjects, supervised students and work resolved. Removing a mentor rejects
// every supervised student first, so their work returns to pending instead
// of being lost.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// carry the mentor, student or chat identifiers involved.

package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

// PartyService owns identity records and their subject associations.
type PartyService struct {
	DB      *gorm.DB
	Catalog *CatalogService
	Work    *WorkService
}

// NewPartyService constructs a PartyService.
func NewPartyService(db *gorm.DB, catalog *CatalogService, work *WorkService) *PartyService {
	return &PartyService{DB: db, Catalog: catalog, Work: work}
}

// AddMentorInput registers a mentor and the subjects they can supervise.
type AddMentorInput struct {
	DisplayName string   `json:"display_name" validate:"max=255"`
	ChatID      int64    `json:"chat_id"      validate:"required"`
	Subjects    []string `json:"subjects"     validate:"dive,max=255"`
}

// MentorFilter selects mentors. The first non-zero field wins; an empty
// filter lists every mentor.
type MentorFilter struct {
	ID        int64
	ChatID    int64
	StudentID int64
}

// StudentFilter selects students. The first non-zero field wins; an empty
// filter lists every student.
type StudentFilter struct {
	ID       int64
	ChatID   int64
	MentorID int64
}

// RemoveMentorOutcome lists the pending rows created by rejecting the
// mentor's students.
type RemoveMentorOutcome struct {
	Status     Status  `json:"status"`
	PendingIDs []int64 `json:"pending_ids"`
}

// MentorSuggestion is a mentor ranked for a set of subjects.
type MentorSuggestion struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	ChatID      int64  `json:"chat_id"`
	Load        int64  `json:"load"`
	Matches     int64  `json:"matches"`
}

// AddMentor creates the mentor for a chat id, or reuses the existing one,
// and links the named subjects. Names are validated before anything is
// written; subjects already linked are not counted twice.
func (s *PartyService) AddMentor(ctx context.Context, in AddMentorInput) (*domain.MentorView, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "AddMentor", trace.WithAttributes(attribute.Int64("mentor.chat_id", in.ChatID)))
	defer span.End()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	names, err := normalizeNames(in.Subjects)
	if err != nil {
		return nil, err
	}

	var id int64
	err = inTx(ctx, s.DB, "add mentor", func(tx *gorm.DB) error {
		m, created, err := repo.UpsertMentor(ctx, tx, normalizeText(in.DisplayName), in.ChatID)
		if err != nil {
			return storeErr("upsert mentor", err)
		}
		id = m.ID
		if created {
			log.Ctx(ctx).Debug().Int64("mentor_id", m.ID).Msg("mentor.add")
		}
		return s.linkMentorSubjects(ctx, tx, m.ID, names)
	})
	if err != nil {
		return nil, err
	}
	s.Catalog.changed(ctx)
	return s.mentorView(ctx, id)
}

// AddMentorSubjects links names to a mentor, creating subjects as needed.
func (s *PartyService) AddMentorSubjects(ctx context.Context, mentorID int64, names []string) (*domain.MentorView, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "AddMentorSubjects", trace.WithAttributes(attribute.Int64("mentor.id", mentorID)))
	defer span.End()

	norm, err := normalizeNames(names)
	if err != nil {
		return nil, err
	}
	err = inTx(ctx, s.DB, "add mentor subjects", func(tx *gorm.DB) error {
		if _, err := repo.GetMentorForUpdate(ctx, tx, mentorID); err != nil {
			return lookupErr("get mentor", err, ErrMentorNotFound)
		}
		return s.linkMentorSubjects(ctx, tx, mentorID, norm)
	})
	if err != nil {
		return nil, err
	}
	s.Catalog.changed(ctx)
	return s.mentorView(ctx, mentorID)
}

func (s *PartyService) linkMentorSubjects(ctx context.Context, tx *gorm.DB, mentorID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	current, err := repo.MentorLinks.Subjects(ctx, tx, mentorID)
	if err != nil {
		return storeErr("list subjects", err)
	}
	linked := make(map[string]struct{}, len(current))
	for _, c := range current {
		linked[c.Name] = struct{}{}
	}
	fresh := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := linked[n]; !ok {
			fresh = append(fresh, n)
		}
	}
	ids, err := s.Catalog.resolveNames(ctx, tx, fresh)
	if err != nil {
		return err
	}
	if err := repo.MentorLinks.Attach(ctx, tx, mentorID, ids); err != nil {
		return storeErr("link subjects", err)
	}
	return nil
}

// RemoveMentorSubjects unlinks subject ids from a mentor. Ids that were not
// linked are ignored; only actual unlinks lower usage counts.
func (s *PartyService) RemoveMentorSubjects(ctx context.Context, mentorID int64, subjectIDs []int64) (*domain.MentorView, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "RemoveMentorSubjects", trace.WithAttributes(attribute.Int64("mentor.id", mentorID)))
	defer span.End()

	err := inTx(ctx, s.DB, "remove mentor subjects", func(tx *gorm.DB) error {
		if _, err := repo.GetMentorForUpdate(ctx, tx, mentorID); err != nil {
			return lookupErr("get mentor", err, ErrMentorNotFound)
		}
		current, err := repo.MentorLinks.SubjectIDs(ctx, tx, mentorID)
		if err != nil {
			return storeErr("list subjects", err)
		}
		want := make(map[int64]struct{}, len(subjectIDs))
		for _, id := range subjectIDs {
			want[id] = struct{}{}
		}
		var drop []int64
		for _, id := range current {
			if _, ok := want[id]; ok {
				drop = append(drop, id)
			}
		}
		if _, err := repo.MentorLinks.Detach(ctx, tx, mentorID, drop); err != nil {
			return storeErr("unlink subjects", err)
		}
		if err := repo.DecrementUsage(ctx, tx, drop); err != nil {
			return storeErr("decrement usage", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Catalog.changed(ctx)
	return s.mentorView(ctx, mentorID)
}

// GetMentors returns assembled mentor views selected by f. No match is an
// empty slice, not an error.
func (s *PartyService) GetMentors(ctx context.Context, f MentorFilter) ([]domain.MentorView, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "GetMentors")
	defer span.End()

	var (
		mentors []domain.Mentor
		err     error
	)
	switch {
	case f.ID != 0:
		m, gerr := repo.GetMentor(ctx, s.DB, f.ID)
		mentors, err = oneOrNone(m, gerr)
	case f.ChatID != 0:
		m, gerr := repo.GetMentorByChat(ctx, s.DB, f.ChatID)
		mentors, err = oneOrNone(m, gerr)
	case f.StudentID != 0:
		mentors, err = repo.MentorsOfStudent(ctx, s.DB, f.StudentID)
	default:
		mentors, err = repo.ListMentors(ctx, s.DB)
	}
	if err != nil {
		return nil, storeErr("list mentors", err)
	}
	views, err := loadMentorViews(ctx, s.DB, mentors)
	if err != nil {
		return nil, storeErr("assemble mentors", err)
	}
	return views, nil
}

func (s *PartyService) mentorView(ctx context.Context, id int64) (*domain.MentorView, error) {
	views, err := s.GetMentors(ctx, MentorFilter{ID: id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrMentorNotFound
	}
	return &views[0], nil
}

// oneOrNone turns a single-row lookup into a slice, absorbing not-found.
func oneOrNone[T any](row *T, err error) ([]T, error) {
	if errors.Is(err, repo.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []T{*row}, nil
}

// RemoveMentor rejects every student the mentor supervises, then deletes the
// mentor's ideas, subject links and row. Usage counts are not lowered. A
// missing mentor is a no-op.
func (s *PartyService) RemoveMentor(ctx context.Context, id int64) (*RemoveMentorOutcome, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "RemoveMentor", trace.WithAttributes(attribute.Int64("mentor.id", id)))
	defer span.End()

	out := &RemoveMentorOutcome{Status: StatusNoOp, PendingIDs: []int64{}}
	err := inTx(ctx, s.DB, "remove mentor", func(tx *gorm.DB) error {
		_, err := repo.GetMentorForUpdate(ctx, tx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeErr("get mentor", err)
		}

		students, err := repo.SupervisedStudentIDs(ctx, tx, id)
		if err != nil {
			return storeErr("list supervised", err)
		}
		for _, sid := range students {
			r, err := s.Work.reject(ctx, tx, id, sid)
			if err != nil {
				return err
			}
			if r.Status == StatusApplied {
				out.PendingIDs = append(out.PendingIDs, r.PendingID)
			}
		}

		ideas, err := repo.IdeaIDsOfMentor(ctx, tx, id)
		if err != nil {
			return storeErr("list ideas", err)
		}
		if err := repo.IdeaLinks.Clear(ctx, tx, ideas...); err != nil {
			return storeErr("unlink ideas", err)
		}
		if _, err := repo.DeleteIdeas(ctx, tx, ideas...); err != nil {
			return storeErr("delete ideas", err)
		}
		if err := repo.MentorLinks.Clear(ctx, tx, id); err != nil {
			return storeErr("unlink subjects", err)
		}
		if err := repo.DeleteSupervisionsOfMentor(ctx, tx, id); err != nil {
			return storeErr("delete supervision", err)
		}
		if _, err := repo.DeleteMentor(ctx, tx, id); err != nil {
			return storeErr("delete mentor", err)
		}
		out.Status = StatusApplied
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Int64("mentor_id", id).
		Int("rejected", len(out.PendingIDs)).
		Str("status", string(out.Status)).
		Msg("mentor.remove")
	observe("remove_mentor", out.Status)
	return out, nil
}

// ArchiveMentor hides a mentor from suggestions. Supervision is unchanged.
func (s *PartyService) ArchiveMentor(ctx context.Context, id int64) error {
	return s.setMentorArchived(ctx, id, true)
}

// UnarchiveMentor makes a mentor suggestible again.
func (s *PartyService) UnarchiveMentor(ctx context.Context, id int64) error {
	return s.setMentorArchived(ctx, id, false)
}

func (s *PartyService) setMentorArchived(ctx context.Context, id int64, archived bool) error {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "SetMentorArchived",
		trace.WithAttributes(attribute.Int64("mentor.id", id), attribute.Bool("archived", archived)))
	defer span.End()

	if err := repo.SetMentorArchived(ctx, s.DB, id, archived); err != nil {
		return lookupErr("archive mentor", err, ErrMentorNotFound)
	}
	return nil
}

// SuggestMentors ranks non-archived mentors for subjectIDs, least loaded
// first. limit <= 0 returns every match.
func (s *PartyService) SuggestMentors(ctx context.Context, subjectIDs []int64, limit int) ([]MentorSuggestion, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "SuggestMentors", trace.WithAttributes(attribute.Int("subjects", len(subjectIDs))))
	defer span.End()

	rows, err := repo.MatchMentors(ctx, s.DB, uniqueIDs(subjectIDs), limit)
	if err != nil {
		return nil, storeErr("match mentors", err)
	}
	out := make([]MentorSuggestion, len(rows))
	for i, r := range rows {
		out[i] = MentorSuggestion(r)
	}
	return out, nil
}

// GetStudents returns assembled student views selected by f.
func (s *PartyService) GetStudents(ctx context.Context, f StudentFilter) ([]domain.StudentView, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "GetStudents")
	defer span.End()

	var (
		students []domain.Student
		err      error
	)
	switch {
	case f.ID != 0:
		st, gerr := repo.GetStudent(ctx, s.DB, f.ID)
		students, err = oneOrNone(st, gerr)
	case f.ChatID != 0:
		st, gerr := repo.GetStudentByChat(ctx, s.DB, f.ChatID)
		students, err = oneOrNone(st, gerr)
	case f.MentorID != 0:
		students, err = repo.StudentsOfMentor(ctx, s.DB, f.MentorID)
	default:
		students, err = repo.ListStudents(ctx, s.DB)
	}
	if err != nil {
		return nil, storeErr("list students", err)
	}
	views, err := loadStudentViews(ctx, s.DB, students)
	if err != nil {
		return nil, storeErr("assemble students", err)
	}
	return views, nil
}

// RemoveStudent deletes a student with all of their pending and accepted
// work, its subject links and any supervision edge. Mentor load and subject
// usage counts are left as they are. A missing student is a no-op.
func (s *PartyService) RemoveStudent(ctx context.Context, id int64) (Status, error) {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "RemoveStudent", trace.WithAttributes(attribute.Int64("student.id", id)))
	defer span.End()

	status := StatusNoOp
	err := inTx(ctx, s.DB, "remove student", func(tx *gorm.DB) error {
		_, err := repo.GetStudentForUpdate(ctx, tx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeErr("get student", err)
		}

		pending, err := repo.PendingIDsOfStudent(ctx, tx, id, 0)
		if err != nil {
			return storeErr("list pending", err)
		}
		accepted, err := repo.AcceptedOfStudents(ctx, tx, []int64{id})
		if err != nil {
			return storeErr("list accepted", err)
		}
		acceptedIDs := make([]int64, len(accepted))
		for i, a := range accepted {
			acceptedIDs[i] = a.ID
		}

		if err := repo.PendingLinks.Clear(ctx, tx, pending...); err != nil {
			return storeErr("unlink pending", err)
		}
		if err := repo.AcceptedLinks.Clear(ctx, tx, acceptedIDs...); err != nil {
			return storeErr("unlink accepted", err)
		}
		if err := repo.DeleteSupervisionsOfStudent(ctx, tx, id); err != nil {
			return storeErr("delete supervision", err)
		}
		if _, err := repo.DeletePending(ctx, tx, pending...); err != nil {
			return storeErr("delete pending", err)
		}
		if _, err := repo.DeleteAccepted(ctx, tx, acceptedIDs...); err != nil {
			return storeErr("delete accepted", err)
		}
		if _, err := repo.DeleteStudent(ctx, tx, id); err != nil {
			return storeErr("delete student", err)
		}
		status = StatusApplied
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Ctx(ctx).Debug().Int64("student_id", id).Str("status", string(status)).Msg("student.remove")
	observe("remove_student", status)
	return status, nil
}

// ----------------------------------------------------------------------------
// Admins and support agents

// AddAdmin adds chatID to the admin list. Adding twice is a no-op.
func (s *PartyService) AddAdmin(ctx context.Context, chatID int64) (*domain.Admin, error) {
	if chatID == 0 {
		return nil, invalid(errors.New("chat id is required"))
	}
	a, err := repo.UpsertAdmin(ctx, s.DB, chatID)
	if err != nil {
		return nil, storeErr("add admin", err)
	}
	return a, nil
}

// RemoveAdmin removes chatID from the admin list.
func (s *PartyService) RemoveAdmin(ctx context.Context, chatID int64) error {
	n, err := repo.DeleteAdminByChat(ctx, s.DB, chatID)
	if err != nil {
		return storeErr("remove admin", err)
	}
	if n == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// ListAdmins returns every admin.
func (s *PartyService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	out, err := repo.ListAdmins(ctx, s.DB)
	return out, storeErr("list admins", err)
}

// IsAdmin reports whether chatID is on the admin list.
func (s *PartyService) IsAdmin(ctx context.Context, chatID int64) (bool, error) {
	ok, err := repo.ChatExists(ctx, s.DB, &domain.Admin{}, chatID)
	return ok, storeErr("check admin", err)
}

// AddSupportAgent registers a support agent; an existing chat id is
// returned unchanged.
func (s *PartyService) AddSupportAgent(ctx context.Context, chatID int64, displayName string) (*domain.SupportAgent, error) {
	if chatID == 0 {
		return nil, invalid(errors.New("chat id is required"))
	}
	a, err := repo.UpsertSupportAgent(ctx, s.DB, chatID, normalizeText(displayName))
	if err != nil {
		return nil, storeErr("add support agent", err)
	}
	return a, nil
}

// RemoveSupportAgent unassigns the agent's requests and deletes the agent.
func (s *PartyService) RemoveSupportAgent(ctx context.Context, id int64) error {
	tr := otel.Tracer("services/PartyService")
	ctx, span := tr.Start(ctx, "RemoveSupportAgent", trace.WithAttributes(attribute.Int64("support.id", id)))
	defer span.End()

	return inTx(ctx, s.DB, "remove support agent", func(tx *gorm.DB) error {
		if _, err := repo.GetSupportAgent(ctx, tx, id); err != nil {
			return lookupErr("get support agent", err, ErrSupportAgentNotFound)
		}
		if err := repo.ClearAssignments(ctx, tx, id); err != nil {
			return storeErr("clear assignments", err)
		}
		if _, err := repo.DeleteSupportAgent(ctx, tx, id); err != nil {
			return storeErr("delete support agent", err)
		}
		return nil
	})
}

// ListSupportAgents returns every support agent.
func (s *PartyService) ListSupportAgents(ctx context.Context) ([]domain.SupportAgent, error) {
	out, err := repo.ListSupportAgents(ctx, s.DB)
	return out, storeErr("list support agents", err)
}

// IsSupportAgent reports whether chatID belongs to a support agent.
func (s *PartyService) IsSupportAgent(ctx context.Context, chatID int64) (bool, error) {
	ok, err := repo.ChatExists(ctx, s.DB, &domain.SupportAgent{}, chatID)
	return ok, storeErr("check support agent", err)
}

// WhoIs reports every role chatID holds.
func (s *PartyService) WhoIs(ctx context.Context, chatID int64) (domain.Roles, error) {
	r := domain.Roles{ChatID: chatID}
	checks := []struct {
		model any
		dst   *bool
	}{
		{&domain.Admin{}, &r.Admin},
		{&domain.SupportAgent{}, &r.Support},
		{&domain.Mentor{}, &r.Mentor},
		{&domain.Student{}, &r.Student},
	}
	for _, c := range checks {
		ok, err := repo.ChatExists(ctx, s.DB, c.model, chatID)
		if err != nil {
			return domain.Roles{}, storeErr("whois", err)
		}
		*c.dst = ok
	}
	return r, nil
}
