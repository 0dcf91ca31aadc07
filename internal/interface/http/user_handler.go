package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/dayline-app/dayline/internal/application"
	"github.com/dayline-app/dayline/internal/domain/entity"
	"github.com/dayline-app/dayline/internal/interface/middleware"
	"github.com/dayline-app/dayline/pkg/response"
	"github.com/dayline-app/dayline/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Email string `json:"email" binding:"omitempty,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

// Register POST /api/user/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrEmailTaken):
			response.Error(c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, userapp.ErrNameRequired):
			response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"name": "is required"})
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userJSON(u), "token": token})
}

// Login POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Message matches the credential failure on purpose; a malformed
		// email must not reveal whether the account exists.
		response.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userJSON(u), "token": token})
}

// Me GET /api/user/me
func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("get profile failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userJSON(u)})
}

// UpdateProfile PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, userapp.UpdateProfileInput{Name: req.Name, Email: req.Email})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrEmailTaken):
			response.Error(c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).WithField("user_id", uid).Error("update profile failed")
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userJSON(u)})
}

// ChangePassword PUT /api/user/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, userapp.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "current password incorrect", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).WithField("user_id", uid).Error("change password failed")
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password changed"})
}
