package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hotel-lead-crm/internal/config"
	"hotel-lead-crm/internal/logger"
	"hotel-lead-crm/internal/model"
	"hotel-lead-crm/internal/repository"
	"hotel-lead-crm/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints. There is no public
// registration: accounts are provisioned by admins, so auth only verifies
// credentials and manages the token pair.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    model.User `json:"user"`
	Access  tokenPart  `json:"access"`
	Refresh tokenPart  `json:"refresh"`
}

// issuePair mints an access/refresh pair for the user and stores the hashed
// refresh token.
func (h *AuthHandler) issuePair(c echo.Context, u model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    u,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// Login verifies credentials against the active subset and returns a new
// token pair. Soft-deleted users cannot log in; the response never says
// whether the email or the password was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.GetByEmailActive(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		logger.FromEcho(c).Error("login query failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	resp, err := h.issuePair(c, u)
	if err != nil {
		logger.FromEcho(c).Error("issue token pair failed", zap.Error(err), zap.Int64("user_id", u.ID))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Login successful", "data": resp})
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Session expired")
	}
	// Rotation must not issue a new pair while the old token is still live.
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		logger.FromEcho(c).Error("refresh token revoke failed", zap.Error(err), zap.Int64("user_id", userID))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil || u.IsDeleted {
		return fail(c, http.StatusUnauthorized, "Session expired")
	}

	resp, err := h.issuePair(c, u)
	if err != nil {
		logger.FromEcho(c).Error("refresh token rotation failed", zap.Error(err), zap.Int64("user_id", userID))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Token refreshed", "data": resp})
}

// RefreshAccess validates a refresh token and returns a new access token
// WITHOUT rotating the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Session expired")
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil || u.IsDeleted {
		return fail(c, http.StatusUnauthorized, "Session expired")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		logger.FromEcho(c).Error("issue access token failed", zap.Error(err), zap.Int64("user_id", userID))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"access": tokenPart{Token: access.Token, Expires: access.Exp}},
	})
}

// Logout invalidates the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, http.StatusBadRequest, "refresh_token required")
	}
	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()
	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))); err != nil {
		logger.FromEcho(c).Error("logout revoke failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()
	u, err := h.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": u})
}
