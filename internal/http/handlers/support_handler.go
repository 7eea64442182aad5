// Support queue HTTP handlers.
//
// Requests:
//   - POST   /support/requests              (file; an open request is returned as is)
//   - GET    /support/requests              (?agent_id= narrows to one agent)
//   - POST   /support/requests/{id}/assign
//   - DELETE /support/requests/{id}         (resolve)
//
// Agents:
//   - POST   /support/agents
//   - GET    /support/agents
//   - DELETE /support/agents/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/http/middleware"
	"github.com/tbourn/go-mentorship-backend/internal/services"
)

// FileRequestRequest opens a support request. chat_id defaults to the
// caller's X-Chat-ID.
type FileRequestRequest struct {
	ChatID      int64  `json:"chat_id"      example:"4242"`
	DisplayName string `json:"display_name" binding:"max=255"  example:"Grace"`
	Issue       string `json:"issue"        binding:"max=4000" example:"Cannot see my accepted work"`
}

// FileRequestResponse wraps the open request.
type FileRequestResponse struct {
	Request domain.SupportRequest `json:"request"`
	Created bool                  `json:"created"`
}

// SupportRequestsResponse lists open requests.
type SupportRequestsResponse struct {
	Requests []domain.SupportRequest `json:"requests"`
}

// AssignRequestRequest names the agent.
type AssignRequestRequest struct {
	AgentID int64 `json:"agent_id" binding:"required,gt=0" example:"2"`
}

// AddSupportAgentRequest registers an agent.
type AddSupportAgentRequest struct {
	ChatID      int64  `json:"chat_id"      binding:"required" example:"5151"`
	DisplayName string `json:"display_name" binding:"max=255"  example:"Helpdesk"`
}

// SupportAgentsResponse lists agents.
type SupportAgentsResponse struct {
	Agents []domain.SupportAgent `json:"agents"`
}

// FileSupportRequest godoc
// @ID          fileSupportRequest
// @Summary     Open a support request
// @Description A chat has at most one open request; filing again returns it with created=false.
// @Tags        Support
// @Accept      json
// @Produce     json
// @Param       X-Chat-ID  header    int                          false  "Acting chat id"
// @Param       body       body      handlers.FileRequestRequest  true   "Request"
// @Success     200        {object}  handlers.FileRequestResponse
// @Success     201        {object}  handlers.FileRequestResponse
// @Failure     400        {object}  handlers.ErrorResponse
// @Router      /support/requests [post]
func (h *Handlers) FileSupportRequest(c *gin.Context) {
	var req FileRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ChatID == 0 {
		req.ChatID, _ = middleware.ActorFrom(c)
	}
	r, created, err := h.support.FileRequest(c.Request.Context(), services.FileRequestInput{
		ChatID:      req.ChatID,
		DisplayName: req.DisplayName,
		Issue:       req.Issue,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, FileRequestResponse{Request: *r, Created: created})
}

// ListSupportRequests godoc
// @ID       listSupportRequests
// @Summary  List open support requests
// @Tags     Support
// @Produce  json
// @Param    agent_id  query  int  false  "Only requests assigned to this agent"
// @Success  200  {object}  handlers.SupportRequestsResponse
// @Failure  400  {object}  handlers.ErrorResponse
// @Router   /support/requests [get]
func (h *Handlers) ListSupportRequests(c *gin.Context) {
	agentID, okq := queryID(c, "agent_id")
	if !okq {
		return
	}
	var (
		out []domain.SupportRequest
		err error
	)
	if agentID == 0 {
		out, err = h.support.ListOpenRequests(c.Request.Context())
	} else {
		out, err = h.support.ListRequestsFor(c.Request.Context(), agentID)
	}
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SupportRequestsResponse{Requests: out})
}

// AssignSupportRequest godoc
// @ID       assignSupportRequest
// @Summary  Assign a request to an agent
// @Tags     Support
// @Accept   json
// @Produce  json
// @Param    id    path      int                            true  "Request id"
// @Param    body  body      handlers.AssignRequestRequest  true  "Agent"
// @Success  200   {object}  domain.SupportRequest
// @Failure  404   {object}  handlers.ErrorResponse
// @Router   /support/requests/{id}/assign [post]
func (h *Handlers) AssignSupportRequest(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	var req AssignRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.support.AssignRequest(c.Request.Context(), id, req.AgentID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// ResolveSupportRequest godoc
// @ID       resolveSupportRequest
// @Summary  Resolve (delete) a support request
// @Tags     Support
// @Param    id  path  int  true  "Request id"
// @Success  204
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /support/requests/{id} [delete]
func (h *Handlers) ResolveSupportRequest(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	if err := h.support.ResolveRequest(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// AddSupportAgent godoc
// @ID       addSupportAgent
// @Summary  Register a support agent
// @Tags     Support
// @Accept   json
// @Produce  json
// @Param    body  body      handlers.AddSupportAgentRequest  true  "Agent"
// @Success  201   {object}  domain.SupportAgent
// @Failure  400   {object}  handlers.ErrorResponse
// @Router   /support/agents [post]
func (h *Handlers) AddSupportAgent(c *gin.Context) {
	var req AddSupportAgentRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.party.AddSupportAgent(c.Request.Context(), req.ChatID, req.DisplayName)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, a)
}

// ListSupportAgents godoc
// @ID       listSupportAgents
// @Summary  List support agents
// @Tags     Support
// @Produce  json
// @Success  200  {object}  handlers.SupportAgentsResponse
// @Router   /support/agents [get]
func (h *Handlers) ListSupportAgents(c *gin.Context) {
	out, err := h.party.ListSupportAgents(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SupportAgentsResponse{Agents: out})
}

// RemoveSupportAgent godoc
// @ID          removeSupportAgent
// @Summary     Remove a support agent
// @Description Assigned requests return to the unassigned pool.
// @Tags        Support
// @Param       id  path  int  true  "Agent id"
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /support/agents/{id} [delete]
func (h *Handlers) RemoveSupportAgent(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	if err := h.party.RemoveSupportAgent(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
