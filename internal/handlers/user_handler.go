package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/services"
)

// UserHandler handles user management. Every route requires the admin role.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// CreateUserRequest represents the request payload for creating a user.
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=100"`
	Password string      `json:"password" binding:"required,min=6,max=128"`
	Role     models.Role `json:"role" binding:"omitempty,user_role"`
}

// CreateUser creates a new user account
// @Summary     Create user
// @Description Create a user (admin only)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "New user"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Password, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:     adminID,
		Action:     models.ActionCreateUser,
		Resource:   models.ResourceUser,
		ResourceID: user.ID,
		IPAddress:  c.ClientIP(),
		Changes:    map[string]any{"username": user.Username, "role": user.Role},
	})

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

// ListUsers lists all users
// @Summary     List users
// @Description List every user (admin only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} UserResponse "Users"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}
