// Package services – IdeaService
//
// Ideas are mentor-authored proposals with their own subject tags. They have
// no state machine: create, list and delete only.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

// IdeaService manages the idea board.
type IdeaService struct {
	DB      *gorm.DB
	Catalog *CatalogService
}

// NewIdeaService constructs an IdeaService.
func NewIdeaService(db *gorm.DB, catalog *CatalogService) *IdeaService {
	return &IdeaService{DB: db, Catalog: catalog}
}

// CreateIdeaInput describes a new idea.
type CreateIdeaInput struct {
	MentorID    int64    `json:"mentor_id"   validate:"required,gt=0"`
	Description string   `json:"description" validate:"max=4000"`
	Subjects    []string `json:"subjects"    validate:"dive,max=255"`
}

// IdeaFilter selects ideas. ID wins over the other fields, which combine.
type IdeaFilter struct {
	ID        int64
	MentorID  int64
	SubjectID int64
}

// CreateIdea stores an idea for an existing mentor and tags it.
func (s *IdeaService) CreateIdea(ctx context.Context, in CreateIdeaInput) (*domain.IdeaView, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "CreateIdea", trace.WithAttributes(attribute.Int64("mentor.id", in.MentorID)))
	defer span.End()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	desc, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}
	names, err := normalizeNames(in.Subjects)
	if err != nil {
		return nil, err
	}

	var view domain.IdeaView
	err = inTx(ctx, s.DB, "create idea", func(tx *gorm.DB) error {
		if _, err := repo.GetMentor(ctx, tx, in.MentorID); err != nil {
			return lookupErr("get mentor", err, ErrMentorNotFound)
		}
		ids, err := s.Catalog.resolveNames(ctx, tx, names)
		if err != nil {
			return err
		}
		idea, err := repo.CreateIdea(ctx, tx, in.MentorID, desc)
		if err != nil {
			return storeErr("create idea", err)
		}
		if err := repo.IdeaLinks.Attach(ctx, tx, idea.ID, ids); err != nil {
			return storeErr("link subjects", err)
		}
		views, err := loadIdeaViews(ctx, tx, []domain.Idea{*idea})
		if err != nil {
			return storeErr("assemble idea", err)
		}
		view = views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Catalog.changed(ctx)
	return &view, nil
}

// GetIdeas lists ideas selected by f.
func (s *IdeaService) GetIdeas(ctx context.Context, f IdeaFilter) ([]domain.IdeaView, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "GetIdeas")
	defer span.End()

	var (
		ideas []domain.Idea
		err   error
	)
	if f.ID != 0 {
		idea, gerr := repo.GetIdea(ctx, s.DB, f.ID)
		ideas, err = oneOrNone(idea, gerr)
	} else {
		ideas, err = repo.ListIdeas(ctx, s.DB, repo.IdeaQuery{MentorID: f.MentorID, SubjectID: f.SubjectID})
	}
	if err != nil {
		return nil, storeErr("list ideas", err)
	}
	views, err := loadIdeaViews(ctx, s.DB, ideas)
	if err != nil {
		return nil, storeErr("assemble ideas", err)
	}
	return views, nil
}

// RemoveIdea deletes an idea and its links, lowering subject usage.
func (s *IdeaService) RemoveIdea(ctx context.Context, id int64) error {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "RemoveIdea", trace.WithAttributes(attribute.Int64("idea.id", id)))
	defer span.End()

	err := inTx(ctx, s.DB, "remove idea", func(tx *gorm.DB) error {
		if _, err := repo.GetIdea(ctx, tx, id); err != nil {
			return lookupErr("get idea", err, ErrIdeaNotFound)
		}
		subjects, err := repo.IdeaLinks.SubjectIDs(ctx, tx, id)
		if err != nil {
			return storeErr("list subjects", err)
		}
		if err := repo.IdeaLinks.Clear(ctx, tx, id); err != nil {
			return storeErr("unlink subjects", err)
		}
		if err := repo.DecrementUsage(ctx, tx, subjects); err != nil {
			return storeErr("decrement usage", err)
		}
		if _, err := repo.DeleteIdeas(ctx, tx, id); err != nil {
			return storeErr("delete idea", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Catalog.changed(ctx)
	return nil
}
