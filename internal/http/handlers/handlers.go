// Package handlers exposes the catalog, party directory, work lifecycle,
// idea board and support queue over JSON.
//
// Handlers are transport-thin: they parse path, query and body, call one
// service operation, and translate the result (or the error taxonomy) into a
// response. They hold no state of their own.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/services"
	"github.com/tbourn/go-mentorship-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatalogService manages subjects and their usage counters.
type CatalogService interface {
	AddSubject(ctx context.Context, name string) (int64, error)
	RemoveSubject(ctx context.Context, id int64) error
	ArchiveSubject(ctx context.Context, id int64) error
	UnarchiveSubject(ctx context.Context, id int64) error
	GetSubjects(ctx context.Context, f services.SubjectFilter) ([]domain.SubjectRef, error)
	SuggestSubjects(ctx context.Context, query string, k int) ([]services.SubjectSuggestion, error)
}

// PartyService manages mentors, students, admins and support agents.
type PartyService interface {
	AddMentor(ctx context.Context, in services.AddMentorInput) (*domain.MentorView, error)
	AddMentorSubjects(ctx context.Context, mentorID int64, names []string) (*domain.MentorView, error)
	RemoveMentorSubjects(ctx context.Context, mentorID int64, subjectIDs []int64) (*domain.MentorView, error)
	GetMentors(ctx context.Context, f services.MentorFilter) ([]domain.MentorView, error)
	RemoveMentor(ctx context.Context, id int64) (*services.RemoveMentorOutcome, error)
	ArchiveMentor(ctx context.Context, id int64) error
	UnarchiveMentor(ctx context.Context, id int64) error
	SuggestMentors(ctx context.Context, subjectIDs []int64, limit int) ([]services.MentorSuggestion, error)

	GetStudents(ctx context.Context, f services.StudentFilter) ([]domain.StudentView, error)
	RemoveStudent(ctx context.Context, id int64) (services.Status, error)

	AddAdmin(ctx context.Context, chatID int64) (*domain.Admin, error)
	RemoveAdmin(ctx context.Context, chatID int64) error
	ListAdmins(ctx context.Context) ([]domain.Admin, error)

	AddSupportAgent(ctx context.Context, chatID int64, displayName string) (*domain.SupportAgent, error)
	RemoveSupportAgent(ctx context.Context, id int64) error
	ListSupportAgents(ctx context.Context) ([]domain.SupportAgent, error)

	WhoIs(ctx context.Context, chatID int64) (domain.Roles, error)
}

// WorkService runs the pending/accepted lifecycle.
type WorkService interface {
	CreateWork(ctx context.Context, in services.CreateWorkInput) (*domain.WorkView, error)
	AcceptWork(ctx context.Context, mentorID, workID int64) (*services.AcceptOutcome, error)
	RejectStudent(ctx context.Context, mentorID, studentID int64) (*services.RejectOutcome, error)
	ReadmitWork(ctx context.Context, acceptedID int64, newSubjectID *int64) (*services.ReadmitOutcome, error)
	ModifyWork(ctx context.Context, in services.ModifyWorkInput) (*domain.WorkView, error)
	RemoveWork(ctx context.Context, workID int64) (*services.RemoveOutcome, error)
	GetWork(ctx context.Context, id int64, state domain.WorkState) (*domain.WorkView, error)
}

// IdeaService manages mentor-proposed ideas.
type IdeaService interface {
	CreateIdea(ctx context.Context, in services.CreateIdeaInput) (*domain.IdeaView, error)
	GetIdeas(ctx context.Context, f services.IdeaFilter) ([]domain.IdeaView, error)
	RemoveIdea(ctx context.Context, id int64) error
}

// SupportService manages the help-request queue.
type SupportService interface {
	FileRequest(ctx context.Context, in services.FileRequestInput) (*domain.SupportRequest, bool, error)
	ListOpenRequests(ctx context.Context) ([]domain.SupportRequest, error)
	ListRequestsFor(ctx context.Context, agentID int64) ([]domain.SupportRequest, error)
	AssignRequest(ctx context.Context, requestID, agentID int64) (*domain.SupportRequest, error)
	ResolveRequest(ctx context.Context, requestID int64) error
}

// CensusService reports table sizes.
type CensusService interface {
	Stats(ctx context.Context) (domain.Census, error)
}

// IdempotencyStore remembers which resource a keyed request produced.
// A nil store disables replay.
type IdempotencyStore interface {
	Lookup(ctx context.Context, actor, scope, key string, now time.Time) (resourceID int64, found bool, err error)
	Remember(ctx context.Context, actor, scope, key string, resourceID int64, status int) error
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers.
type Services struct {
	Catalog     CatalogService
	Party       PartyService
	Work        WorkService
	Ideas       IdeaService
	Support     SupportService
	Census      CensusService
	Idempotency IdempotencyStore
}

// Handlers groups every HTTP endpoint of the API.
type Handlers struct {
	catalog CatalogService
	party   PartyService
	work    WorkService
	ideas   IdeaService
	support SupportService
	census  CensusService
	idem    IdempotencyStore
}

// New constructs Handlers bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		catalog: s.Catalog,
		party:   s.Party,
		work:    s.Work,
		ideas:   s.Ideas,
		support: s.Support,
		census:  s.Census,
		idem:    s.Idempotency,
	}
}

// Outcome is the generic envelope for operations that either applied or
// found nothing to do.
type Outcome struct {
	Status services.Status `json:"status" example:"applied"`
}

//
// Helpers
//

// pathID reads a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+": "+err.Error())
		return 0, false
	}
	return id, true
}

// queryID reads an optional positive integer query parameter.
func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseOptionalID(c.Query(name))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+": "+err.Error())
		return 0, false
	}
	return id, true
}

// queryChatID reads an optional chat id query parameter.
func queryChatID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := utils.ParseChatID(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+": "+err.Error())
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid body: "+err.Error())
		return false
	}
	return true
}
