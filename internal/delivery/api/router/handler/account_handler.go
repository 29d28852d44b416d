package handler

import (
	"log/slog"
	"net/http"

	"elogbook/internal/delivery/api/response"
	"elogbook/internal/domain/entity"
	"elogbook/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler serves the admin account management routes
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

// CreateAccountRequest represents the request body for adding an account
type CreateAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
	Status   string `json:"status" validate:"omitempty,status"`
}

// UpdateAccountRequest represents a partial account update. Absent fields are kept.
type UpdateAccountRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=1"`
	FullName *string `json:"fullName" validate:"omitempty,min=1"`
	Role     *string `json:"role" validate:"omitempty,role"`
	Status   *string `json:"status" validate:"omitempty,status"`
}

func (r *UpdateAccountRequest) patch() *entity.AccountPatch {
	p := &entity.AccountPatch{
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
	}
	if r.Role != nil {
		role := entity.Role(*r.Role)
		p.Role = &role
	}
	if r.Status != nil {
		status := entity.AccountStatus(*r.Status)
		p.Status = &status
	}

	return p
}

// ListAccounts handles GET /api/v1/accounts
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.accountUC.ListAccounts(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, accounts)
}

// ListStaff handles GET /api/v1/accounts/staff
func (h *AccountHandler) ListStaff(c echo.Context) error {
	staff, err := h.accountUC.ListStaff(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, staff)
}

// GetAccount handles GET /api/v1/accounts/:id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	account, err := h.accountUC.GetAccount(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, account)
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req CreateAccountRequest
	if ok, err := bind(c, &req, "account"); !ok {
		return err
	}

	account, err := h.accountUC.CreateAccount(c.Request().Context(), usecase.CreateAccountInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     entity.Role(req.Role),
		Status:   entity.AccountStatus(req.Status),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, account)
}

// UpdateAccount handles PATCH /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	var req UpdateAccountRequest
	if ok, err := bind(c, &req, "account"); !ok {
		return err
	}

	account, err := h.accountUC.UpdateAccount(c.Request().Context(), id, req.patch())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, account)
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.accountUC.DeleteAccount(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, message("Account deleted"))
}
