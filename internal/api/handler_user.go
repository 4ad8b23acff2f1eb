package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/verdant-io/planttracker/internal/user"
)

type CredentialsBody struct {
	Username string `json:"username" doc:"Account username" minLength:"1"`
	Password string `json:"password" doc:"Account password" minLength:"1"`
}

type RegisterInput struct {
	Body CredentialsBody
}

type LoginInput struct {
	Body CredentialsBody
}

type UserResponse struct {
	Username  string    `json:"username" doc:"Account username"`
	CreatedAt time.Time `json:"createdAt" doc:"Registration time"`
}

type UserOutput struct {
	Body UserResponse
}

type UserHandler struct {
	users  *user.Service
	logger *slog.Logger
}

func NewUserHandler(users *user.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func registerUserRoutes(api huma.API, h *UserHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-user",
		Method:        http.MethodPost,
		Path:          "/api/users/register",
		Summary:       "Register an account",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusCreated,
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login-user",
		Method:      http.MethodPost,
		Path:        "/api/users/login",
		Summary:     "Log in",
		Tags:        []string{"users"},
	}, h.Login)
}

func (h *UserHandler) Register(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	u, err := h.users.Register(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, userError(h.logger, err, "register user")
	}
	return &UserOutput{Body: UserResponse{Username: u.Username, CreatedAt: u.CreatedAt}}, nil
}

func (h *UserHandler) Login(ctx context.Context, input *LoginInput) (*UserOutput, error) {
	u, err := h.users.Login(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, userError(h.logger, err, "log in")
	}
	return &UserOutput{Body: UserResponse{Username: u.Username, CreatedAt: u.CreatedAt}}, nil
}
