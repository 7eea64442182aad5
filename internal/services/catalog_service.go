// Package services – CatalogService
//
// This file implements the subject catalog: the deduplicated vocabulary of
// subject names with advisory usage counters. Name resolution is an atomic
// upsert, so concurrent adds of the same name neither duplicate rows nor lose
// increments. Removal cascades through the four subject join tables before the
// subject row goes.
//
// The active listing is served through an optional read-through cache that
// is invalidated whenever catalog membership may have changed.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-mentorship-backend/internal/cache"
	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
	"github.com/tbourn/go-mentorship-backend/internal/search"
)

const activeSubjectsKey = "subjects:active"

// CatalogService owns the subject vocabulary.
type CatalogService struct {
	DB    *gorm.DB
	Cache *cache.Loader
}

// NewCatalogService constructs a CatalogService. c may be nil.
func NewCatalogService(db *gorm.DB, c *cache.Loader) *CatalogService {
	return &CatalogService{DB: db, Cache: c}
}

// SubjectFilter selects subjects for GetSubjects. At most one owner filter
// is honoured, in field order. Without an owner filter, Archived selects the
// archived or the active listing; nil means active.
type SubjectFilter struct {
	ID       int64
	MentorID int64
	WorkID   int64
	State    domain.WorkState
	IdeaID   int64
	Archived *bool
}

// SubjectSuggestion is a ranked catalog match.
type SubjectSuggestion struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Usage int64   `json:"usage_count"`
	Score float64 `json:"score"`
}

// AddSubject resolves name to a subject id, creating the subject on first
// use and incrementing its usage count otherwise.
func (s *CatalogService) AddSubject(ctx context.Context, name string) (int64, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "AddSubject", trace.WithAttributes(attribute.String("subject.name", name)))
	defer span.End()

	n, err := normalizeName(name)
	if err != nil {
		return 0, err
	}
	id, err := repo.UpsertSubject(ctx, s.DB, n)
	if err != nil {
		return 0, storeErr("add subject", err)
	}
	s.changed(ctx)
	return id, nil
}

// EnsureSubject returns the id of name, creating the subject when it is
// missing. Unlike AddSubject an existing subject's usage is left alone, so
// repeated bootstraps do not inflate counts.
func (s *CatalogService) EnsureSubject(ctx context.Context, name string) (int64, error) {
	n, err := normalizeName(name)
	if err != nil {
		return 0, err
	}
	existing, err := repo.GetSubjectByName(ctx, s.DB, n)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return 0, storeErr("get subject", err)
	}
	return s.AddSubject(ctx, n)
}

// resolveNames resolves every name inside tx. Names must already be
// normalised.
func (s *CatalogService) resolveNames(ctx context.Context, tx *gorm.DB, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, n := range names {
		id, err := repo.UpsertSubject(ctx, tx, n)
		if err != nil {
			return nil, storeErr("resolve subject", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RemoveSubject hard-deletes a subject after unlinking it from every mentor,
// unit of work and idea. The owners themselves are untouched.
func (s *CatalogService) RemoveSubject(ctx context.Context, id int64) error {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "RemoveSubject", trace.WithAttributes(attribute.Int64("subject.id", id)))
	defer span.End()

	err := inTx(ctx, s.DB, "remove subject", func(tx *gorm.DB) error {
		if _, err := repo.GetSubject(ctx, tx, id); err != nil {
			return lookupErr("get subject", err, ErrSubjectNotFound)
		}
		if err := repo.DeleteSubjectLinks(ctx, tx, id); err != nil {
			return storeErr("unlink subject", err)
		}
		if _, err := repo.DeleteSubject(ctx, tx, id); err != nil {
			return storeErr("delete subject", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Int64("subject_id", id).Msg("subject.remove")
	s.changed(ctx)
	return nil
}

// ArchiveSubject hides a subject from active listings.
func (s *CatalogService) ArchiveSubject(ctx context.Context, id int64) error {
	return s.setArchived(ctx, id, true)
}

// UnarchiveSubject restores a subject to active listings.
func (s *CatalogService) UnarchiveSubject(ctx context.Context, id int64) error {
	return s.setArchived(ctx, id, false)
}

func (s *CatalogService) setArchived(ctx context.Context, id int64, archived bool) error {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "SetArchived",
		trace.WithAttributes(attribute.Int64("subject.id", id), attribute.Bool("archived", archived)))
	defer span.End()

	if err := repo.SetSubjectArchived(ctx, s.DB, id, archived); err != nil {
		return lookupErr("archive subject", err, ErrSubjectNotFound)
	}
	s.changed(ctx)
	return nil
}

// GetSubjects returns id+name pairs selected by f.
func (s *CatalogService) GetSubjects(ctx context.Context, f SubjectFilter) ([]domain.SubjectRef, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "GetSubjects")
	defer span.End()

	var (
		rows []domain.Subject
		err  error
	)
	switch {
	case f.ID != 0:
		rows, err = repo.SubjectsByIDs(ctx, s.DB, []int64{f.ID})
	case f.MentorID != 0:
		rows, err = repo.MentorLinks.Subjects(ctx, s.DB, f.MentorID)
	case f.WorkID != 0 && f.State == domain.StateAccepted:
		rows, err = repo.AcceptedLinks.Subjects(ctx, s.DB, f.WorkID)
	case f.WorkID != 0:
		rows, err = repo.PendingLinks.Subjects(ctx, s.DB, f.WorkID)
	case f.IdeaID != 0:
		rows, err = repo.IdeaLinks.Subjects(ctx, s.DB, f.IdeaID)
	case f.Archived != nil && *f.Archived:
		rows, err = repo.ListSubjects(ctx, s.DB, f.Archived)
	default:
		rows, err = s.active(ctx)
	}
	if err != nil {
		return nil, storeErr("list subjects", err)
	}
	return subjectRefs(rows), nil
}

// SuggestSubjects ranks active subjects against a free-text query.
func (s *CatalogService) SuggestSubjects(ctx context.Context, query string, k int) ([]SubjectSuggestion, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "SuggestSubjects",
		trace.WithAttributes(attribute.String("query", query), attribute.Int("k", k)))
	defer span.End()

	rows, err := s.active(ctx)
	if err != nil {
		return nil, storeErr("list subjects", err)
	}
	entries := make([]search.Entry, len(rows))
	for i, r := range rows {
		entries[i] = search.Entry{ID: r.ID, Name: r.Name, Usage: r.UsageCount}
	}
	results := search.New(entries).TopK(normalizeText(query), k)
	out := make([]SubjectSuggestion, len(results))
	for i, r := range results {
		out[i] = SubjectSuggestion{ID: r.ID, Name: r.Name, Usage: r.Usage, Score: r.Score}
	}
	return out, nil
}

func (s *CatalogService) active(ctx context.Context) ([]domain.Subject, error) {
	return cache.Fetch(ctx, s.Cache, activeSubjectsKey, func(ctx context.Context) ([]domain.Subject, error) {
		archived := false
		return repo.ListSubjects(ctx, s.DB, &archived)
	})
}

// changed drops cached listings after a catalog write. Safe on a nil receiver.
func (s *CatalogService) changed(ctx context.Context) {
	if s == nil {
		return
	}
	s.Cache.Invalidate(ctx, activeSubjectsKey)
}
