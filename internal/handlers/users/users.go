package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rdq-api/internal/apperr"
	"rdq-api/internal/httpx"
	"rdq-api/internal/middleware"
	"rdq-api/internal/models"
	"rdq-api/internal/users"
)

type CreateUserRequest struct {
	Email       string      `json:"email" binding:"required,email"`
	FirstName   string      `json:"firstName" binding:"required,min=2,max=100"`
	LastName    string      `json:"lastName" binding:"required,min=2,max=100"`
	Password    string      `json:"password" binding:"required"`
	Role        models.Role `json:"role" binding:"required"`
	Department  string      `json:"department" binding:"max=100"`
	PhoneNumber string      `json:"phoneNumber" binding:"max=20"`
	ManagerID   *uint       `json:"managerId"`
}

// UpdateUserRequest carries a partial patch; absent fields are not applied.
type UpdateUserRequest struct {
	Email       *string      `json:"email"`
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	Role        *models.Role `json:"role"`
	Department  *string      `json:"department"`
	PhoneNumber *string      `json:"phoneNumber"`
	Active      *bool        `json:"active"`
	ManagerID   *uint        `json:"managerId"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type UserResponse struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Role        models.Role `json:"role"`
	Department  string      `json:"department,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Active      bool        `json:"active"`
	ManagerID   *uint       `json:"managerId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type UserHandler struct {
	Service *users.Service
	Log     *zap.Logger
}

func NewUserHandler(service *users.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{Service: service, Log: log}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	u, err := h.Service.Create(users.CreateInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
		Role:        req.Role,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(u))
}

// Get returns a user profile. Non-admin callers may only read themselves.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if id != middleware.CallerID(c) && middleware.CallerRole(c) != models.RoleAdmin {
		httpx.Error(c, apperr.AccessDenied("cannot read another user's profile"))
		return
	}

	u, err := h.Service.Get(id)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}

	u, err := h.Service.Update(id, users.UpdateInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        req.Role,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
		Active:      req.Active,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) List(c *gin.Context) {
	var (
		list []models.User
		err  error
	)
	if role := c.Query("role"); role != "" {
		list, err = h.Service.ListByRole(models.Role(role))
	} else {
		list, err = h.Service.ListActive()
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(list))
}

// Team returns the caller's direct reports.
func (h *UserHandler) Team(c *gin.Context) {
	list, err := h.Service.Team(middleware.CallerID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(list))
}

func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, h.Service.Activate)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, h.Service.Deactivate)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "oldPassword and newPassword are required")
		return
	}

	if err := h.Service.ChangePassword(middleware.CallerID(c), req.OldPassword, req.NewPassword); err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *UserHandler) setActive(c *gin.Context, op func(id uint) (*models.User, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	u, err := op(id)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		httpx.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		Department:  u.Department,
		PhoneNumber: u.PhoneNumber,
		Active:      u.Active,
		ManagerID:   u.ManagerID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserResponses(list []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toUserResponse(&list[i]))
	}
	return out
}
