// Package services – WorkService
//
// This file implements the work lifecycle engine. A unit of work is either
// pending (filed, unassigned) or accepted (assigned to a mentor), and the
// table it lives in is its state:
//
//	create ─▶ Pending ──accept──▶ Accepted
//	            ▲  │                 │
//	            │  └─remove          │ reject
//	            └────────────────────┘
//	readmit: copy an Accepted row into a new Pending row, original untouched.
//
// Every operation runs in one GORM transaction. The pending or accepted row
// is read with a row lock where the store supports one, so a second
// identical call waits for the first and then finds nothing to do. Missing
// rows are reported as a no-op outcome, not an error: front ends retry
// button presses freely.
//
// Observability: all public methods are OpenTelemetry-instrumented and every
// outcome is counted in mentorship_work_transitions_total.

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

// Status is the outcome of a lifecycle operation.
type Status string

const (
	// StatusApplied means the operation changed state as requested.
	StatusApplied Status = "applied"
	// StatusMerged means an accept found the student already holding an
	// accepted row and merged the subjects into it.
	StatusMerged Status = "merged"
	// StatusNoOp means the referenced row was already gone.
	StatusNoOp Status = "noop"
)

// WorkService runs the work lifecycle engine.
type WorkService struct {
	DB      *gorm.DB
	Catalog *CatalogService

	// RejectDecrementsLoad makes rejectStudent lower the mentor's load.
	// When false, reject raises it by one like accept does.
	RejectDecrementsLoad bool
}

// NewWorkService constructs a WorkService.
func NewWorkService(db *gorm.DB, catalog *CatalogService, rejectDecrementsLoad bool) *WorkService {
	return &WorkService{DB: db, Catalog: catalog, RejectDecrementsLoad: rejectDecrementsLoad}
}

// CreateWorkInput files a new request. The student is given by id, or by
// chat id, in which case it is created on first use.
type CreateWorkInput struct {
	StudentID    int64    `json:"student_id"    validate:"required_without=ChatID,gte=0"`
	ChatID       int64    `json:"chat_id"       validate:"required_without=StudentID"`
	DisplayName  string   `json:"display_name"  validate:"max=255"`
	SubjectIDs   []int64  `json:"subject_ids"   validate:"dive,gt=0"`
	SubjectNames []string `json:"subject_names" validate:"dive,max=255"`
	Description  string   `json:"description"   validate:"max=4000"`
}

// AcceptOutcome reports what acceptWork did.
type AcceptOutcome struct {
	Status     Status  `json:"status"`
	AcceptedID int64   `json:"accepted_id,omitempty"`
	StudentID  int64   `json:"student_id,omitempty"`
	Purged     []int64 `json:"purged_pending_ids,omitempty"`
}

// RejectOutcome reports what rejectStudent did.
type RejectOutcome struct {
	Status    Status `json:"status"`
	PendingID int64  `json:"pending_id,omitempty"`
}

// ReadmitOutcome reports what readmitWork did.
type ReadmitOutcome struct {
	Status    Status `json:"status"`
	PendingID int64  `json:"pending_id,omitempty"`
}

// RemoveOutcome reports what removeWork did.
type RemoveOutcome struct {
	Status         Status `json:"status"`
	StudentRemoved bool   `json:"student_removed"`
}

// ModifyWorkInput replaces the subject set and description of a pending row.
type ModifyWorkInput struct {
	WorkID       int64    `json:"-"             validate:"gt=0"`
	SubjectNames []string `json:"subject_names" validate:"dive,max=255"`
	Description  string   `json:"description"   validate:"max=4000"`
}

// CreateWork files a pending request and returns it. Every subject, given
// by id or by name, is resolved through the catalog, which increments its
// usage count.
func (s *WorkService) CreateWork(ctx context.Context, in CreateWorkInput) (*domain.WorkView, error) {
	tr := otel.Tracer("services/WorkService")
	ctx, span := tr.Start(ctx, "CreateWork",
		trace.WithAttributes(
			attribute.Int64("student.id", in.StudentID),
			attribute.Int64("student.chat_id", in.ChatID),
		),
	)
	defer span.End()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	desc, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}
	names, err := normalizeNames(in.SubjectNames)
	if err != nil {
		return nil, err
	}

	var view domain.WorkView
	err = inTx(ctx, s.DB, "create work", func(tx *gorm.DB) error {
		student, err := s.student(ctx, tx, in)
		if err != nil {
			return err
		}

		byID, err := s.subjectNames(ctx, tx, in.SubjectIDs)
		if err != nil {
			return err
		}
		all, err := normalizeNames(append(byID, names...))
		if err != nil {
			return err
		}
		ids, err := s.Catalog.resolveNames(ctx, tx, all)
		if err != nil {
			return err
		}

		w, err := repo.CreatePending(ctx, tx, student.ID, desc)
		if err != nil {
			return storeErr("create pending", err)
		}
		if err := repo.PendingLinks.Attach(ctx, tx, w.ID, ids); err != nil {
			return storeErr("link subjects", err)
		}
		refs, err := repo.PendingLinks.Subjects(ctx, tx, w.ID)
		if err != nil {
			return storeErr("list subjects", err)
		}
		view = assemblePending(*w, subjectRefs(refs))
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().Int64("work_id", view.ID).Int64("student_id", view.StudentID).Msg("work.create")
	observe("create", StatusApplied)
	s.Catalog.changed(ctx)
	return &view, nil
}

func (s *WorkService) student(ctx context.Context, tx *gorm.DB, in CreateWorkInput) (*domain.Student, error) {
	if in.StudentID != 0 {
		st, err := repo.GetStudent(ctx, tx, in.StudentID)
		if err != nil {
			return nil, lookupErr("get student", err, ErrStudentNotFound)
		}
		return st, nil
	}
	st, err := repo.UpsertStudent(ctx, tx, in.ChatID, normalizeText(in.DisplayName))
	if err != nil {
		return nil, storeErr("upsert student", err)
	}
	return st, nil
}

// subjectNames maps ids to names so they can go through name resolution.
func (s *WorkService) subjectNames(ctx context.Context, tx *gorm.DB, ids []int64) ([]string, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := repo.SubjectsByIDs(ctx, tx, ids)
	if err != nil {
		return nil, storeErr("get subjects", err)
	}
	if len(rows) != len(ids) {
		return nil, ErrSubjectNotFound
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

// AcceptWork assigns the pending row workID to mentorID. All other pending
// rows of the same student are purged. When the student already holds an
// accepted row the subjects are merged into it instead of inserting a
// second one. A missing pending row is a no-op.
func (s *WorkService) AcceptWork(ctx context.Context, mentorID, workID int64) (*AcceptOutcome, error) {
	tr := otel.Tracer("services/WorkService")
	ctx, span := tr.Start(ctx, "AcceptWork",
		trace.WithAttributes(
			attribute.Int64("mentor.id", mentorID),
			attribute.Int64("work.id", workID),
		),
	)
	defer span.End()

	out := &AcceptOutcome{Status: StatusNoOp}
	err := inTx(ctx, s.DB, "accept work", func(tx *gorm.DB) error {
		if _, err := repo.GetMentorForUpdate(ctx, tx, mentorID); err != nil {
			return lookupErr("get mentor", err, ErrMentorNotFound)
		}
		p, err := repo.LockPending(ctx, tx, workID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeErr("get pending", err)
		}

		subjects, err := repo.PendingLinks.SubjectIDs(ctx, tx, p.ID)
		if err != nil {
			return storeErr("list subjects", err)
		}
		siblings, err := repo.PendingIDsOfStudent(ctx, tx, p.StudentID, p.ID)
		if err != nil {
			return storeErr("list siblings", err)
		}

		acc, inserted, err := repo.InsertAccepted(ctx, tx, p.StudentID, p.Description)
		if err != nil {
			return storeErr("insert accepted", err)
		}
		if err := repo.AcceptedLinks.Attach(ctx, tx, acc.ID, subjects); err != nil {
			return storeErr("link subjects", err)
		}

		purge := append([]int64{p.ID}, siblings...)
		if err := repo.PendingLinks.Clear(ctx, tx, purge...); err != nil {
			return storeErr("unlink pending", err)
		}
		if _, err := repo.DeletePending(ctx, tx, purge...); err != nil {
			return storeErr("delete pending", err)
		}

		if err := repo.AddLoad(ctx, tx, mentorID, 1); err != nil {
			return storeErr("add load", err)
		}
		if err := repo.CreateSupervision(ctx, tx, mentorID, p.StudentID); err != nil {
			return storeErr("create supervision", err)
		}

		out.Status = StatusApplied
		if !inserted {
			out.Status = StatusMerged
		}
		out.AcceptedID = acc.ID
		out.StudentID = p.StudentID
		out.Purged = purge
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Int64("mentor_id", mentorID).
		Int64("work_id", workID).
		Str("status", string(out.Status)).
		Msg("work.accept")
	observe("accept", out.Status)
	return out, nil
}

// RejectStudent returns the student's accepted work to pending under a new
// id with the same description and subjects, then drops the supervision
// edge. The mentor's load is adjusted as configured by RejectDecrementsLoad.
// A student without accepted work is a no-op.
func (s *WorkService) RejectStudent(ctx context.Context, mentorID, studentID int64) (*RejectOutcome, error) {
	tr := otel.Tracer("services/WorkService")
	ctx, span := tr.Start(ctx, "RejectStudent",
		trace.WithAttributes(
			attribute.Int64("mentor.id", mentorID),
			attribute.Int64("student.id", studentID),
		),
	)
	defer span.End()

	var out *RejectOutcome
	err := inTx(ctx, s.DB, "reject student", func(tx *gorm.DB) error {
		if _, err := repo.GetMentorForUpdate(ctx, tx, mentorID); err != nil {
			return lookupErr("get mentor", err, ErrMentorNotFound)
		}
		var err error
		out, err = s.reject(ctx, tx, mentorID, studentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Int64("mentor_id", mentorID).
		Int64("student_id", studentID).
		Str("status", string(out.Status)).
		Msg("work.reject")
	observe("reject", out.Status)
	return out, nil
}

// reject is the body of RejectStudent, shared with mentor removal. The
// caller owns tx and has checked that the mentor exists.
func (s *WorkService) reject(ctx context.Context, tx *gorm.DB, mentorID, studentID int64) (*RejectOutcome, error) {
	if _, err := repo.GetStudentForUpdate(ctx, tx, studentID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, storeErr("lock student", err)
	}
	acc, err := repo.GetAcceptedOfStudent(ctx, tx, studentID)
	if errors.Is(err, repo.ErrNotFound) {
		if _, err := repo.DeleteSupervision(ctx, tx, mentorID, studentID); err != nil {
			return nil, storeErr("delete supervision", err)
		}
		return &RejectOutcome{Status: StatusNoOp}, nil
	}
	if err != nil {
		return nil, storeErr("get accepted", err)
	}

	subjects, err := repo.AcceptedLinks.SubjectIDs(ctx, tx, acc.ID)
	if err != nil {
		return nil, storeErr("list subjects", err)
	}
	p, err := repo.CreatePending(ctx, tx, studentID, acc.Description)
	if err != nil {
		return nil, storeErr("create pending", err)
	}
	if err := repo.PendingLinks.Attach(ctx, tx, p.ID, subjects); err != nil {
		return nil, storeErr("link subjects", err)
	}
	if err := repo.AcceptedLinks.Clear(ctx, tx, acc.ID); err != nil {
		return nil, storeErr("unlink accepted", err)
	}
	if _, err := repo.DeleteAccepted(ctx, tx, acc.ID); err != nil {
		return nil, storeErr("delete accepted", err)
	}

	delta := int64(1)
	if s.RejectDecrementsLoad {
		delta = -1
	}
	if err := repo.AddLoad(ctx, tx, mentorID, delta); err != nil {
		return nil, storeErr("add load", err)
	}
	if _, err := repo.DeleteSupervision(ctx, tx, mentorID, studentID); err != nil {
		return nil, storeErr("delete supervision", err)
	}
	return &RejectOutcome{Status: StatusApplied, PendingID: p.ID}, nil
}

// ReadmitWork files an extra pending request derived from the accepted row
// acceptedID, leaving that row untouched. With newSubjectID the new request
// carries only that subject, otherwise it copies the full subject set. A
// missing accepted row is a no-op.
func (s *WorkService) ReadmitWork(ctx context.Context, acceptedID int64, newSubjectID *int64) (*ReadmitOutcome, error) {
	tr := otel.Tracer("services/WorkService")
	ctx, span := tr.Start(ctx, "ReadmitWork", trace.WithAttributes(attribute.Int64("work.id", acceptedID)))
	defer span.End()

	out := &ReadmitOutcome{Status: StatusNoOp}
	err := inTx(ctx, s.DB, "readmit work", func(tx *gorm.DB) error {
		acc, err := repo.GetAccepted(ctx, tx, acceptedID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeErr("get accepted", err)
		}
		// Re-read under the student lock; a concurrent reject may have
		// returned the row to pending.
		if _, err := repo.GetStudentForUpdate(ctx, tx, acc.StudentID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			return storeErr("lock student", err)
		}
		if acc, err = repo.GetAccepted(ctx, tx, acceptedID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			return storeErr("get accepted", err)
		}

		var subjects []int64
		if newSubjectID != nil {
			if _, err := repo.GetSubject(ctx, tx, *newSubjectID); err != nil {
				return lookupErr("get subject", err, ErrSubjectNotFound)
			}
			subjects = []int64{*newSubjectID}
		} else if subjects, err = repo.AcceptedLinks.SubjectIDs(ctx, tx, acc.ID); err != nil {
			return storeErr("list subjects", err)
		}

		p, err := repo.CreatePending(ctx, tx, acc.StudentID, acc.Description)
		if err != nil {
			return storeErr("create pending", err)
		}
		if err := repo.PendingLinks.Attach(ctx, tx, p.ID, subjects); err != nil {
			return storeErr("link subjects", err)
		}
		out.Status = StatusApplied
		out.PendingID = p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().Int64("accepted_id", acceptedID).Str("status", string(out.Status)).Msg("work.readmit")
	observe("readmit", out.Status)
	return out, nil
}

// ModifyWork replaces the subjects and description of a pending row.
// Subjects are diffed by name: only added names are resolved (incrementing
// usage) and only removed subjects are decremented; unchanged ones keep
// their counts.
func (s *WorkService) ModifyWork(ctx context.Context, in ModifyWorkInput) (*domain.WorkView, error) {
	tr := otel.Tracer("services/WorkService")
	ctx, span := tr.Start(ctx, "ModifyWork", trace.WithAttributes(attribute.Int64("work.id", in.WorkID)))
	defer span.End()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	desc, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}
	names, err := normalizeNames(in.SubjectNames)
	if err != nil {
		return nil, err
	}

	var view domain.WorkView
	err = inTx(ctx, s.DB, "modify work", func(tx *gorm.DB) error {
		w, err := repo.LockPending(ctx, tx, in.WorkID)
		if err != nil {
			return lookupErr("get pending", err, ErrWorkNotFound)
		}
		current, err := repo.PendingLinks.Subjects(ctx, tx, w.ID)
		if err != nil {
			return storeErr("list subjects", err)
		}

		wanted := make(map[string]struct{}, len(names))
		for _, n := range names {
			wanted[n] = struct{}{}
		}
		have := make(map[string]int64, len(current))
		var keep, removed []int64
		for _, c := range current {
			have[c.Name] = c.ID
			if _, ok := wanted[c.Name]; ok {
				keep = append(keep, c.ID)
			} else {
				removed = append(removed, c.ID)
			}
		}
		var added []string
		for _, n := range names {
			if _, ok := have[n]; !ok {
				added = append(added, n)
			}
		}

		addedIDs, err := s.Catalog.resolveNames(ctx, tx, added)
		if err != nil {
			return err
		}
		if err := repo.DecrementUsage(ctx, tx, removed); err != nil {
			return storeErr("decrement usage", err)
		}
		if _, err := repo.UpdatePendingDescription(ctx, tx, w.ID, desc); err != nil {
			return storeErr("update description", err)
		}
		if err := repo.PendingLinks.Clear(ctx, tx, w.ID); err != nil {
			return storeErr("unlink subjects", err)
		}
		if err := repo.PendingLinks.Attach(ctx, tx, w.ID, append(keep, addedIDs...)); err != nil {
			return storeErr("link subjects", err)
		}

		refs, err := repo.PendingLinks.Subjects(ctx, tx, w.ID)
		if err != nil {
			return storeErr("list subjects", err)
		}
		w.Description = desc
		view = assemblePending(*w, subjectRefs(refs))
		return nil
	})
	if err != nil {
		return nil, err
	}

	observe("modify", StatusApplied)
	s.Catalog.changed(ctx)
	return &view, nil
}

// RemoveWork deletes a pending row and its subject links, lowering the
// usage of each linked subject. A student left with no pending and no
// accepted work is deleted as well. A missing row is a no-op.
func (s *WorkService) RemoveWork(ctx context.Context, workID int64) (*RemoveOutcome, error) {
	tr := otel.Tracer("services/WorkService")
	ctx, span := tr.Start(ctx, "RemoveWork", trace.WithAttributes(attribute.Int64("work.id", workID)))
	defer span.End()

	out := &RemoveOutcome{Status: StatusNoOp}
	err := inTx(ctx, s.DB, "remove work", func(tx *gorm.DB) error {
		w, err := repo.LockPending(ctx, tx, workID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeErr("get pending", err)
		}

		subjects, err := repo.PendingLinks.SubjectIDs(ctx, tx, w.ID)
		if err != nil {
			return storeErr("list subjects", err)
		}
		if err := repo.PendingLinks.Clear(ctx, tx, w.ID); err != nil {
			return storeErr("unlink subjects", err)
		}
		if err := repo.DecrementUsage(ctx, tx, subjects); err != nil {
			return storeErr("decrement usage", err)
		}
		if _, err := repo.DeletePending(ctx, tx, w.ID); err != nil {
			return storeErr("delete pending", err)
		}
		out.Status = StatusApplied

		pending, accepted, err := repo.WorkCounts(ctx, tx, w.StudentID)
		if err != nil {
			return storeErr("count work", err)
		}
		if pending > 0 || accepted > 0 {
			return nil
		}
		if err := repo.DeleteSupervisionsOfStudent(ctx, tx, w.StudentID); err != nil {
			return storeErr("delete supervision", err)
		}
		if _, err := repo.DeleteStudent(ctx, tx, w.StudentID); err != nil {
			return storeErr("delete student", err)
		}
		out.StudentRemoved = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Status == StatusApplied {
		s.Catalog.changed(ctx)
	}

	log.Ctx(ctx).Debug().
		Int64("work_id", workID).
		Str("status", string(out.Status)).
		Bool("student_removed", out.StudentRemoved).
		Msg("work.remove")
	observe("remove", out.Status)
	return out, nil
}

// GetWork returns the unit of work id in the given state.
func (s *WorkService) GetWork(ctx context.Context, id int64, state domain.WorkState) (*domain.WorkView, error) {
	tr := otel.Tracer("services/WorkService")
	ctx, span := tr.Start(ctx, "GetWork",
		trace.WithAttributes(attribute.Int64("work.id", id), attribute.String("work.state", string(state))))
	defer span.End()

	var view domain.WorkView
	switch state {
	case domain.StateAccepted:
		w, err := repo.GetAccepted(ctx, s.DB, id)
		if err != nil {
			return nil, lookupErr("get accepted", err, ErrWorkNotFound)
		}
		refs, err := repo.AcceptedLinks.Subjects(ctx, s.DB, id)
		if err != nil {
			return nil, storeErr("list subjects", err)
		}
		view = assembleAccepted(*w, subjectRefs(refs))
	case domain.StatePending, "":
		w, err := repo.GetPending(ctx, s.DB, id)
		if err != nil {
			return nil, lookupErr("get pending", err, ErrWorkNotFound)
		}
		refs, err := repo.PendingLinks.Subjects(ctx, s.DB, id)
		if err != nil {
			return nil, storeErr("list subjects", err)
		}
		view = assemblePending(*w, subjectRefs(refs))
	default:
		return nil, invalid(errors.New("unknown work state " + string(state)))
	}
	return &view, nil
}
