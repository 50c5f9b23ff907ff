package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-feed-service/config"
	"github.com/oksasatya/go-feed-service/internal/application"
	"github.com/oksasatya/go-feed-service/internal/interface/middleware"
	"github.com/oksasatya/go-feed-service/pkg/response"
	"github.com/oksasatya/go-feed-service/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cfg: cfg, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Register PUT /api/auth/signup
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password, h.Cfg.RegisterPasswordMin)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"userId": user.ID}, "user registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token":  res.Token,
		"userId": res.UserID,
	}, "login successful", gin.H{"expires_at": res.ExpiresAt})
}

// GetStatus GET /api/auth/status
func (h *AuthHandler) GetStatus(c *gin.Context) {
	user, _, err := h.Svc.GetUser(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": user.Status}, "status fetched", nil)
}

// UpdateStatus PATCH /api/auth/status
func (h *AuthHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Svc.UpdateStatus(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": user.Status}, "status updated", nil)
}
