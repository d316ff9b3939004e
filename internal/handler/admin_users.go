package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hotel-lead-crm/internal/config"
	"hotel-lead-crm/internal/logger"
	"hotel-lead-crm/internal/model"
	"hotel-lead-crm/internal/repository"
	"hotel-lead-crm/internal/utils"
)

// AdminHandler serves the admin-only user management surface plus the hotel
// export. All routes are gated behind the admin role at the router.
type AdminHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Hotels *repository.HotelRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, h *repository.HotelRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: u, Hotels: h}
}

type createUserReq struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
}

// updateUserReq uses json.RawMessage for phone so "phone": null (clear the
// number) can be told apart from phone omitted (leave unchanged).
type updateUserReq struct {
	FullName string          `json:"full_name"`
	Email    string          `json:"email"`
	Password *string         `json:"password"`
	Phone    json.RawMessage `json:"phone"`
	Role     *string         `json:"role"`
}

// GetAllUsers lists every non-admin account, deleted ones included, newest
// first. Admin rows never appear here.
func (h *AdminHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	users, err := h.Users.ListNonAdmin(ctx)
	if err != nil {
		logger.FromEcho(c).Error("list users failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Users fetched successfully",
		"data":    users,
		"count":   len(users),
	})
}

// GetUserByID fetches a single user regardless of deletion state, so admins
// can inspect deleted accounts before recovering them.
func (h *AdminHandler) GetUserByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}
	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		logger.FromEcho(c).Error("get user failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": u})
}

// CreateUser provisions a new account. Validation order matters: required
// fields, email shape, password length, phone, then role.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Full name, email, and password are required")
	}
	if !utils.ValidEmail(req.Email) {
		return fail(c, http.StatusBadRequest, "Invalid email format")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "Password must be at least 6 characters long")
	}
	var phone *string
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		norm, ok := utils.NormalizePhone(*req.Phone)
		if !ok {
			return fail(c, http.StatusBadRequest, "Phone number must be 10 digits")
		}
		phone = &norm
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, `Role must be either "user" or "admin"`)
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, repository.CreateUserParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    phone,
		Role:     role,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "Email already exists")
		}
		logger.FromEcho(c).Error("create user failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User created successfully",
		"data":    u,
	})
}

// UpdateUser edits an active user. full_name and email are always required;
// password is optional and re-validated when present; phone supports the
// null-to-clear convention.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FullName == "" || req.Email == "" {
		return fail(c, http.StatusBadRequest, "Full name and email are required")
	}
	if !utils.ValidEmail(req.Email) {
		return fail(c, http.StatusBadRequest, "Invalid email format")
	}
	if req.Password != nil && len(*req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "Password must be at least 6 characters long")
	}

	p := repository.UpdateUserParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	if req.Role != nil && !model.ValidRole(*req.Role) {
		return fail(c, http.StatusBadRequest, `Role must be either "user" or "admin"`)
	}
	if len(req.Phone) > 0 { // key present
		p.PhoneSet = true
		var raw *string
		if err := json.Unmarshal(req.Phone, &raw); err != nil {
			return fail(c, http.StatusBadRequest, "Phone number must be 10 digits")
		}
		if raw != nil && strings.TrimSpace(*raw) != "" {
			norm, ok := utils.NormalizePhone(*raw)
			if !ok {
				return fail(c, http.StatusBadRequest, "Phone number must be 10 digits")
			}
			p.Phone = &norm
		}
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.Update(ctx, id, p, h.Cfg.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "User not found")
		case errors.Is(err, repository.ErrEmailExists):
			return fail(c, http.StatusConflict, "Email already exists")
		}
		logger.FromEcho(c).Error("update user failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User updated successfully",
		"data":    u,
	})
}

// SoftDeleteUser marks a user deleted. Admins cannot delete their own
// account; deleting an already-deleted user is an error, not a no-op.
func (h *AdminHandler) SoftDeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.SoftDelete(ctx, id, actor)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSelfDelete):
			return fail(c, http.StatusBadRequest, "You cannot delete your own account")
		case errors.Is(err, repository.ErrAlreadyDeleted):
			return fail(c, http.StatusBadRequest, "User is already deleted")
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "User not found")
		}
		logger.FromEcho(c).Error("delete user failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("User %q deleted successfully", u.FullName),
		"data":    u,
	})
}

// RecoverUser reactivates a soft-deleted user.
func (h *AdminHandler) RecoverUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}
	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.Recover(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotDeleted):
			return fail(c, http.StatusBadRequest, "User is not deleted, so recovery is not needed")
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "User not found")
		}
		logger.FromEcho(c).Error("recover user failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("User %q recovered successfully", u.FullName),
		"data":    u,
	})
}

// ExportHotels returns every active hotel with creator and visit enrichment
// in one unpaginated payload.
func (h *AdminHandler) ExportHotels(c echo.Context) error {
	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	rows, err := h.Hotels.Export(ctx)
	if err != nil {
		logger.FromEcho(c).Error("export hotels failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Hotels exported successfully",
		"data":    rows,
		"count":   len(rows),
	})
}
