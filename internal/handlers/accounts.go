package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl-go/internal/accounts"
	"go.uber.org/zap"
)

// AccountService registers accounts and issues login tokens.
type AccountService interface {
	Register(ctx context.Context, username, password string) (*accounts.Account, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// AccountHandler handles registration and login.
type AccountHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: service,
		logger:   logger,
	}
}

func (h *AccountHandler) Register(ctx context.Context, req *CredentialsRequest) (*RegisterResponse, error) {
	_, err := h.accounts.Register(ctx, req.Body.Username, req.Body.Password)
	if err != nil {
		var validation *accounts.ValidationError

		switch {
		case errors.As(err, &validation):
			return nil, validationError(validation.Problems)
		case errors.Is(err, accounts.ErrDuplicateUsername):
			return nil, huma.Error409Conflict("El nombre de usuario ya existe")
		default:
			h.logger.Error("failed to register account", zap.String("username", req.Body.Username), zap.Error(err))

			return nil, huma.Error500InternalServerError("Error al registrar el usuario")
		}
	}

	resp := &RegisterResponse{Status: http.StatusCreated}
	resp.Body.Message = "Usuario registrado"

	return resp, nil
}

func (h *AccountHandler) Login(ctx context.Context, req *CredentialsRequest) (*LoginResponse, error) {
	token, err := h.accounts.Login(ctx, req.Body.Username, req.Body.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("Nombre de usuario o contraseña incorrectos")
		}

		h.logger.Error("failed to log in", zap.String("username", req.Body.Username), zap.Error(err))

		return nil, huma.Error500InternalServerError("Error al iniciar sesión")
	}

	resp := &LoginResponse{}
	resp.Body.Token = token

	return resp, nil
}
