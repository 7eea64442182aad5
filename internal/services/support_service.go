// Package services – SupportService
//
// The support queue: one open request per chat, optionally assigned to an
// agent, deleted on resolution.
package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

// SupportService manages support requests.
type SupportService struct {
	DB *gorm.DB
}

// NewSupportService constructs a SupportService.
func NewSupportService(db *gorm.DB) *SupportService {
	return &SupportService{DB: db}
}

// FileRequestInput opens a support request.
type FileRequestInput struct {
	ChatID      int64  `json:"chat_id"      validate:"required"`
	DisplayName string `json:"display_name" validate:"max=255"`
	Issue       string `json:"issue"        validate:"max=4000"`
}

// FileRequest opens a request for the chat. If one is already open it is
// returned unchanged and created is false.
func (s *SupportService) FileRequest(ctx context.Context, in FileRequestInput) (r *domain.SupportRequest, created bool, err error) {
	tr := otel.Tracer("services/SupportService")
	ctx, span := tr.Start(ctx, "FileRequest", trace.WithAttributes(attribute.Int64("chat.id", in.ChatID)))
	defer span.End()

	if err := validateInput(in); err != nil {
		return nil, false, err
	}
	r, created, err = repo.FileSupportRequest(ctx, s.DB, in.ChatID, normalizeText(in.DisplayName), normalizeText(in.Issue))
	if err != nil {
		return nil, false, storeErr("file support request", err)
	}
	log.Ctx(ctx).Debug().Int64("request_id", r.ID).Bool("created", created).Msg("support.file")
	return r, created, nil
}

// ListOpenRequests returns every open request in filing order.
func (s *SupportService) ListOpenRequests(ctx context.Context) ([]domain.SupportRequest, error) {
	return s.ListRequestsFor(ctx, 0)
}

// ListRequestsFor returns the open requests assigned to agentID; zero lists
// them all.
func (s *SupportService) ListRequestsFor(ctx context.Context, agentID int64) ([]domain.SupportRequest, error) {
	tr := otel.Tracer("services/SupportService")
	ctx, span := tr.Start(ctx, "ListRequests", trace.WithAttributes(attribute.Int64("support.id", agentID)))
	defer span.End()

	out, err := repo.ListSupportRequests(ctx, s.DB, agentID)
	if err != nil {
		return nil, storeErr("list support requests", err)
	}
	return out, nil
}

// AssignRequest hands a request to an agent. Both must exist.
func (s *SupportService) AssignRequest(ctx context.Context, requestID, agentID int64) (*domain.SupportRequest, error) {
	tr := otel.Tracer("services/SupportService")
	ctx, span := tr.Start(ctx, "AssignRequest",
		trace.WithAttributes(attribute.Int64("request.id", requestID), attribute.Int64("support.id", agentID)))
	defer span.End()

	var out *domain.SupportRequest
	err := inTx(ctx, s.DB, "assign request", func(tx *gorm.DB) error {
		if _, err := repo.GetSupportAgent(ctx, tx, agentID); err != nil {
			return lookupErr("get support agent", err, ErrSupportAgentNotFound)
		}
		n, err := repo.AssignSupportRequest(ctx, tx, requestID, agentID)
		if err != nil {
			return storeErr("assign support request", err)
		}
		if n == 0 {
			return ErrRequestNotFound
		}
		out, err = repo.GetSupportRequest(ctx, tx, requestID)
		return lookupErr("get support request", err, ErrRequestNotFound)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveRequest closes a request by deleting it.
func (s *SupportService) ResolveRequest(ctx context.Context, requestID int64) error {
	tr := otel.Tracer("services/SupportService")
	ctx, span := tr.Start(ctx, "ResolveRequest", trace.WithAttributes(attribute.Int64("request.id", requestID)))
	defer span.End()

	n, err := repo.DeleteSupportRequest(ctx, s.DB, requestID)
	if err != nil {
		return storeErr("delete support request", err)
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	log.Ctx(ctx).Debug().Int64("request_id", requestID).Msg("support.resolve")
	return nil
}
