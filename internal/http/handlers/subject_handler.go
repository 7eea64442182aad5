// Subject HTTP handlers.
//
//   - POST   /subjects                 (addSubject)
//   - GET    /subjects                 (getSubjects by filter)
//   - GET    /subjects/suggest         (ranked suggestions)
//   - POST   /subjects/{id}/archive    (hide from listings)
//   - POST   /subjects/{id}/unarchive
//   - DELETE /subjects/{id}            (remove with link cascade)
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/services"
	"github.com/tbourn/go-mentorship-backend/internal/utils"
)

// AddSubjectRequest is the JSON payload for registering a subject use.
type AddSubjectRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"Distributed Systems"`
}

// AddSubjectResponse carries the id of the (possibly pre-existing) subject.
type AddSubjectResponse struct {
	ID int64 `json:"id" example:"12"`
}

// SubjectsResponse lists subject id+name pairs.
type SubjectsResponse struct {
	Subjects []domain.SubjectRef `json:"subjects"`
}

// SuggestSubjectsResponse lists ranked suggestions.
type SuggestSubjectsResponse struct {
	Suggestions []services.SubjectSuggestion `json:"suggestions"`
}

// AddSubject godoc
// @ID          addSubject
// @Summary     Register a subject use
// @Description Creates the subject when the normalised name is new, otherwise increments its usage count.
// @Tags        Subjects
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.AddSubjectRequest  true  "Subject name"
// @Success     200   {object}  handlers.AddSubjectResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     503   {object}  handlers.ErrorResponse
// @Router      /subjects [post]
func (h *Handlers) AddSubject(c *gin.Context) {
	var req AddSubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.catalog.AddSubject(c.Request.Context(), req.Name)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AddSubjectResponse{ID: id})
}

// ListSubjects godoc
// @ID          listSubjects
// @Summary     List subjects
// @Description Without filters returns active subjects. Filters are exclusive; the first one present wins.
// @Tags        Subjects
// @Produce     json
// @Param       id         query  int     false  "Subject id"
// @Param       mentor_id  query  int     false  "Subjects of a mentor"
// @Param       work_id    query  int     false  "Subjects of a work"
// @Param       state      query  string  false  "Table of work_id"  Enums(pending, accepted)
// @Param       idea_id    query  int     false  "Subjects of an idea"
// @Param       archived   query  bool    false  "true lists archived subjects"
// @Success     200  {object}  handlers.SubjectsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /subjects [get]
func (h *Handlers) ListSubjects(c *gin.Context) {
	var f services.SubjectFilter
	var okq bool
	if f.ID, okq = queryID(c, "id"); !okq {
		return
	}
	if f.MentorID, okq = queryID(c, "mentor_id"); !okq {
		return
	}
	if f.WorkID, okq = queryID(c, "work_id"); !okq {
		return
	}
	if f.IdeaID, okq = queryID(c, "idea_id"); !okq {
		return
	}
	switch state := domain.WorkState(strings.ToLower(c.Query("state"))); state {
	case "", domain.StatePending, domain.StateAccepted:
		f.State = state
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "state must be pending or accepted")
		return
	}
	archived, err := utils.ParseOptionalBool(c.Query("archived"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "archived must be a boolean")
		return
	}
	f.Archived = archived

	refs, err := h.catalog.GetSubjects(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SubjectsResponse{Subjects: refs})
}

// SuggestSubjects godoc
// @ID          suggestSubjects
// @Summary     Suggest subjects for free text
// @Tags        Subjects
// @Produce     json
// @Param       q  query  string  true   "Free text"
// @Param       k  query  int     false  "Max results"  minimum(1) maximum(50) default(5)
// @Success     200  {object}  handlers.SuggestSubjectsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /subjects/suggest [get]
func (h *Handlers) SuggestSubjects(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q required")
		return
	}
	k := utils.ClampInt(c.Query("k"), 5, 1, 50)
	got, err := h.catalog.SuggestSubjects(c.Request.Context(), q, k)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SuggestSubjectsResponse{Suggestions: got})
}

// ArchiveSubject godoc
// @ID       archiveSubject
// @Summary  Archive a subject
// @Tags     Subjects
// @Param    id  path  int  true  "Subject id"
// @Success  204
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /subjects/{id}/archive [post]
func (h *Handlers) ArchiveSubject(c *gin.Context) {
	h.subjectAction(c, h.catalog.ArchiveSubject)
}

// UnarchiveSubject godoc
// @ID       unarchiveSubject
// @Summary  Unarchive a subject
// @Tags     Subjects
// @Param    id  path  int  true  "Subject id"
// @Success  204
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /subjects/{id}/unarchive [post]
func (h *Handlers) UnarchiveSubject(c *gin.Context) {
	h.subjectAction(c, h.catalog.UnarchiveSubject)
}

// RemoveSubject godoc
// @ID          removeSubject
// @Summary     Remove a subject
// @Description Deletes every link to the subject, then the subject. Owning rows are kept.
// @Tags        Subjects
// @Param       id  path  int  true  "Subject id"
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /subjects/{id} [delete]
func (h *Handlers) RemoveSubject(c *gin.Context) {
	h.subjectAction(c, h.catalog.RemoveSubject)
}

func (h *Handlers) subjectAction(c *gin.Context, op func(ctx context.Context, id int64) error) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
