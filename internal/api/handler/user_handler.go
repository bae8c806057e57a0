package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

const (
	msgMissingUIDOrAction = "Missing uid or action"
	msgMissingUIDOrCode   = "Missing uid or code"
	msgMissingUID         = "Missing uid"
	msgInvalidBody        = "Invalid request body"
)

// UserHandler exposes the ban, grant and listing operations.
type UserHandler struct {
	bans   ports.BanService
	grants ports.GrantService
	users  ports.UserService
}

func NewUserHandler(bans ports.BanService, grants ports.GrantService, users ports.UserService) *UserHandler {
	return &UserHandler{bans: bans, grants: grants, users: users}
}

// BanUser sets or clears the banned flag.
//
// @Summary      Ban or unban a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      banRequest  true  "uid and action (ban|unban)"
// @Success      200   {object}  banResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /banUser [post]
func (h *UserHandler) BanUser(c echo.Context) error {
	var req banRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError(msgInvalidBody)
	}
	req.UID = strings.TrimSpace(req.UID)
	req.Action = strings.TrimSpace(req.Action)

	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(msgMissingUIDOrAction)
	}

	if err := h.bans.Apply(c.Request().Context(), req.UID, req.Action); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, banResponse{Success: true, Action: req.Action})
}

// BecomeAdmin grants admin rights in exchange for a grant code.
//
// @Summary      Grant admin rights with a code
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        body  body      grantRequest  true  "uid and grant code"
// @Success      200   {object}  grantResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /becomeAdmin [post]
// @Router       /makeAdmin [post]
func (h *UserHandler) BecomeAdmin(c echo.Context) error {
	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError(msgInvalidBody)
	}
	uid := strings.TrimSpace(req.UID)
	code := strings.TrimSpace(req.code())
	if uid == "" || code == "" {
		return domain.NewValidationError(msgMissingUIDOrCode)
	}

	res, err := h.grants.GrantAdmin(c.Request().Context(), uid, code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, grantResponse{
		Success:   true,
		Type:      string(res.Type),
		ExpiresAt: utcPtr(res.ExpiresAt),
	})
}

// ListAdmins returns every current admin.
//
// @Summary      List admins
// @Tags         admins
// @Produce      json
// @Success      200  {object}  listAdminsResponse
// @Failure      500  {object}  errorResponse
// @Router       /listAdmins [get]
func (h *UserHandler) ListAdmins(c echo.Context) error {
	admins, err := h.users.ListAdmins(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listAdminsResponse{Success: true, Admins: toAdminItems(admins)})
}

// ListUsers returns every user record.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      500  {object}  errorResponse
// @Router       /listUsers [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Success: true, Users: toUserItems(users)})
}

// CreateUserDoc creates the record for a uid on first login. Existing
// records are left untouched.
//
// @Summary      Create a user record
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "uid and optional email"
// @Success      200   {object}  createUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /createUserDoc [post]
func (h *UserHandler) CreateUserDoc(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError(msgInvalidBody)
	}
	req.UID = strings.TrimSpace(req.UID)
	req.Email = strings.TrimSpace(req.Email)
	if req.UID == "" {
		return domain.NewValidationError(msgMissingUID)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.users.CreateUser(c.Request().Context(), req.UID, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, createUserResponse{Success: true, Created: created})
}
