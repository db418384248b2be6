package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rdq-api/internal/httpx"
	"rdq-api/internal/middleware"
	"rdq-api/internal/models"
	"rdq-api/internal/rdq"
)

type CreateRequest struct {
	Title         string             `json:"title" binding:"required,min=5,max=255"`
	Description   string             `json:"description" binding:"required,min=20,max=2000"`
	Type          models.RdqType     `json:"type" binding:"required"`
	Priority      models.RdqPriority `json:"priority" binding:"required"`
	Justification string             `json:"justification" binding:"max=1000"`
	RequestedDate *time.Time         `json:"requestedDate"`
}

// UpdateRequest carries a partial patch; absent fields are not applied.
type UpdateRequest struct {
	Title         *string             `json:"title"`
	Description   *string             `json:"description"`
	Type          *models.RdqType     `json:"type"`
	Priority      *models.RdqPriority `json:"priority"`
	Justification *string             `json:"justification"`
	RequestedDate *time.Time          `json:"requestedDate"`
}

type DecisionRequest struct {
	Comment string `json:"comment" binding:"max=1000"`
}

type RejectRequest struct {
	Comment string `json:"comment" binding:"required,max=1000"`
}

type UserSummary struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      models.Role `json:"role"`
}

type RdqResponse struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Type           models.RdqType     `json:"type"`
	Priority       models.RdqPriority `json:"priority"`
	Status         models.RdqStatus   `json:"status"`
	Justification  string             `json:"justification,omitempty"`
	ManagerComment string             `json:"managerComment,omitempty"`
	RequestedDate  *time.Time         `json:"requestedDate,omitempty"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	Owner          UserSummary        `json:"owner"`
	Manager        *UserSummary       `json:"manager,omitempty"`
}

type RdqHandler struct {
	Service *rdq.Service
	Log     *zap.Logger
}

func NewRdqHandler(service *rdq.Service, log *zap.Logger) *RdqHandler {
	return &RdqHandler{Service: service, Log: log}
}

func (h *RdqHandler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	result, err := h.Service.Create(middleware.CallerID(c), rdq.CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Priority:      req.Priority,
		Justification: req.Justification,
		RequestedDate: req.RequestedDate,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(result))
}

func (h *RdqHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.Service.Get(id, middleware.CallerID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func (h *RdqHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	result, err := h.Service.Update(id, middleware.CallerID(c), rdq.UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Priority:      req.Priority,
		Justification: req.Justification,
		RequestedDate: req.RequestedDate,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func (h *RdqHandler) Submit(c *gin.Context) {
	h.transition(c, h.Service.Submit)
}

func (h *RdqHandler) Resubmit(c *gin.Context) {
	h.transition(c, h.Service.Resubmit)
}

func (h *RdqHandler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// The comment is optional, so an absent body is fine.
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.BadRequest(c, err.Error())
		return
	}

	result, err := h.Service.Approve(id, middleware.CallerID(c), req.Comment)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func (h *RdqHandler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "a non-blank comment is required to reject")
		return
	}

	result, err := h.Service.Reject(id, middleware.CallerID(c), req.Comment)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func (h *RdqHandler) RequestInfo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.BadRequest(c, err.Error())
		return
	}

	result, err := h.Service.RequestMoreInfo(id, middleware.CallerID(c), req.Comment)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func (h *RdqHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, middleware.CallerID(c)); err != nil {
		httpx.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Search handles GET /api/rdq with optional conjunctive filters.
func (h *RdqHandler) Search(c *gin.Context) {
	in := rdq.SearchInput{
		Page: intQuery(c, "page", 0),
		Size: intQuery(c, "size", 20),
	}

	if v := c.Query("ownerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			httpx.BadRequest(c, "ownerId must be a positive integer")
			return
		}
		owner := uint(id)
		in.OwnerID = &owner
	}
	if v := c.Query("status"); v != "" {
		status := models.RdqStatus(v)
		if !status.Valid() {
			httpx.BadRequest(c, "unknown status filter")
			return
		}
		in.Status = &status
	}
	if v := c.Query("type"); v != "" {
		t := models.RdqType(v)
		if !t.Valid() {
			httpx.BadRequest(c, "unknown type filter")
			return
		}
		in.Type = &t
	}
	if v := c.Query("priority"); v != "" {
		p := models.RdqPriority(v)
		if !p.Valid() {
			httpx.BadRequest(c, "unknown priority filter")
			return
		}
		in.Priority = &p
	}
	if v := c.Query("dateFrom"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.BadRequest(c, "dateFrom must be formatted YYYY-MM-DD")
			return
		}
		in.DateFrom = &d
	}
	if v := c.Query("dateTo"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.BadRequest(c, "dateTo must be formatted YYYY-MM-DD")
			return
		}
		end := d.Add(24*time.Hour - time.Second)
		in.DateTo = &end
	}

	page, err := h.Service.Search(middleware.CallerID(c), in)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	content := make([]RdqResponse, 0, len(page.Content))
	for i := range page.Content {
		content = append(content, toResponse(&page.Content[i]))
	}

	c.JSON(http.StatusOK, httpx.PageResponse[RdqResponse]{
		Content:          content,
		TotalElements:    page.TotalElements,
		TotalPages:       page.TotalPages,
		Number:           page.Number,
		Size:             page.Size,
		First:            page.First,
		Last:             page.Last,
		NumberOfElements: page.NumberOfElements,
	})
}

func (h *RdqHandler) transition(c *gin.Context, op func(id, callerID uint) (*models.Rdq, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := op(id, middleware.CallerID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		httpx.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func toResponse(r *models.Rdq) RdqResponse {
	resp := RdqResponse{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Type:           r.Type,
		Priority:       r.Priority,
		Status:         r.Status,
		Justification:  r.Justification,
		ManagerComment: r.ManagerComment,
		RequestedDate:  r.RequestedDate,
		Version:        r.Version,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Owner:          toUserSummary(&r.User),
	}
	if r.User.Manager != nil {
		summary := toUserSummary(r.User.Manager)
		resp.Manager = &summary
	}
	return resp
}

func toUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
