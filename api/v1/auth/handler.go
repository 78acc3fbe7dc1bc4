package auth

import (
	"context"
	"errors"
	"time"

	"gift_catalog/internal/auth"
	"gift_catalog/internal/httpx"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"

	"github.com/gin-gonic/gin"
)

// UserStore is the lookup the login handler needs
type UserStore interface {
	FindUserByLogin(ctx context.Context, login string) (*model.User, error)
}

// LoginRequest represents login request body
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	Token    string   `json:"token"`
	ExpireAt string   `json:"expireAt"`
	User     UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Handler serves the authentication endpoints
type Handler struct {
	users  UserStore
	issuer *auth.Issuer
}

// NewHandler creates an auth handler
func NewHandler(users UserStore, issuer *auth.Issuer) *Handler {
	return &Handler{users: users, issuer: issuer}
}

// Login exchanges credentials for a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	user, err := h.users.FindUserByLogin(c.Request.Context(), req.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// same answer for unknown login and wrong password
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid credentials"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		httpx.FailErr(c, httpx.ErrUnauthorized("invalid credentials"))
		return
	}

	token, expireAt, err := h.issuer.Generate(user.ID, user.Login, user.Role)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
		return
	}

	httpx.OK(c, LoginResponse{
		Token:    token,
		ExpireAt: expireAt.Format(time.RFC3339),
		User: UserInfo{
			ID:    user.ID,
			Login: user.Login,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}
