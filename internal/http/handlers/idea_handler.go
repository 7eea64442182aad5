package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/services"
)

// CreateIdeaRequest proposes an idea on behalf of a mentor.
type CreateIdeaRequest struct {
	MentorID    int64    `json:"mentor_id"   binding:"required,gt=0" example:"3"`
	Description string   `json:"description" binding:"max=4000"     example:"Formal models of chat workflows"`
	Subjects    []string `json:"subjects"    binding:"omitempty,dive,max=255"`
}

// IdeasResponse lists ideas.
type IdeasResponse struct {
	Ideas []domain.IdeaView `json:"ideas"`
}

// CreateIdea godoc
// @ID       createIdea
// @Summary  Propose an idea
// @Tags     Ideas
// @Accept   json
// @Produce  json
// @Param    body  body      handlers.CreateIdeaRequest  true  "Idea"
// @Success  201   {object}  domain.IdeaView
// @Failure  400   {object}  handlers.ErrorResponse
// @Failure  404   {object}  handlers.ErrorResponse
// @Router   /ideas [post]
func (h *Handlers) CreateIdea(c *gin.Context) {
	var req CreateIdeaRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.ideas.CreateIdea(c.Request.Context(), services.CreateIdeaInput{
		MentorID:    req.MentorID,
		Description: req.Description,
		Subjects:    req.Subjects,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, view)
}

// ListIdeas godoc
// @ID       listIdeas
// @Summary  List ideas
// @Tags     Ideas
// @Produce  json
// @Param    mentor_id   query  int  false  "Ideas of a mentor"
// @Param    subject_id  query  int  false  "Ideas tagged with a subject"
// @Success  200  {object}  handlers.IdeasResponse
// @Failure  400  {object}  handlers.ErrorResponse
// @Router   /ideas [get]
func (h *Handlers) ListIdeas(c *gin.Context) {
	var f services.IdeaFilter
	var okq bool
	if f.MentorID, okq = queryID(c, "mentor_id"); !okq {
		return
	}
	if f.SubjectID, okq = queryID(c, "subject_id"); !okq {
		return
	}
	views, err := h.ideas.GetIdeas(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, IdeasResponse{Ideas: views})
}

// RemoveIdea godoc
// @ID       removeIdea
// @Summary  Remove an idea
// @Tags     Ideas
// @Param    id  path  int  true  "Idea id"
// @Success  204
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /ideas/{id} [delete]
func (h *Handlers) RemoveIdea(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	if err := h.ideas.RemoveIdea(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
