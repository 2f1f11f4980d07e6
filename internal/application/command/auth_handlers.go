package command

import (
	"context"
	stderrors "errors"
	"fmt"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/internal/domain/repository"
	"salesdesk/internal/infrastructure/bus"
	"salesdesk/pkg/errors"
	jwtutil "salesdesk/pkg/jwt"

	"go.uber.org/zap"
)

// RegisterUserResult carries the created user's identity.
type RegisterUserResult struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// LoginResult carries a signed token for the authenticated user.
type LoginResult struct {
	Token  string
	UserID string
	Name   string
	Role   string
}

// RegisterUserHandler handles user registration
type RegisterUserHandler struct {
	users    repository.UserRepository
	eventBus bus.EventBus
	logger   *zap.Logger
}

func NewRegisterUserHandler(users repository.UserRepository, eventBus bus.EventBus, logger *zap.Logger) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:    users,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (h *RegisterUserHandler) Handle(ctx context.Context, cmd *RegisterUser) (*RegisterUserResult, error) {
	if cmd.Email == "" || cmd.Password == "" || cmd.Name == "" {
		return nil, errors.NewValidationError("name, email and password are required")
	}

	if _, err := h.users.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, errors.NewConflictError("email already registered")
	} else if !stderrors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	role := aggregate.UserRole(cmd.Role)
	if cmd.Role == "" {
		role = aggregate.RoleCustomer
	}

	user, err := aggregate.NewUser(cmd.Name, cmd.Email, cmd.Password, role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := h.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	for _, ev := range user.GetUncommittedEvents() {
		if err := h.eventBus.Publish(ctx, ev); err != nil {
			h.logger.Warn("event dispatch failed",
				zap.String("event_type", ev.EventType()),
				zap.String("user_id", user.ID()),
				zap.Error(err),
			)
		}
	}
	user.ClearUncommittedEvents()

	h.logger.Info("user registered",
		zap.String("user_id", user.ID()),
		zap.String("role", string(user.Role())),
	)
	return &RegisterUserResult{
		UserID: user.ID(),
		Name:   user.Name(),
		Email:  user.Email(),
		Role:   string(user.Role()),
	}, nil
}

// LoginUserHandler authenticates a user and issues a JWT.
type LoginUserHandler struct {
	users      repository.UserRepository
	jwtManager *jwtutil.JWTManager
	logger     *zap.Logger
}

func NewLoginUserHandler(users repository.UserRepository, jwtManager *jwtutil.JWTManager, logger *zap.Logger) *LoginUserHandler {
	return &LoginUserHandler{
		users:      users,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (h *LoginUserHandler) Handle(ctx context.Context, cmd *LoginUser) (*LoginResult, error) {
	user, err := h.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if stderrors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.NewUnauthorizedError("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := user.VerifyPassword(cmd.Password); err != nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	if !user.IsActive() {
		return nil, errors.NewUnauthorizedError("account is disabled")
	}

	token, err := h.jwtManager.GenerateToken(user.ID(), user.Name(), user.Email(), string(user.Role()))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	user.RecordLogin()
	if err := h.users.Save(ctx, user); err != nil {
		h.logger.Warn("failed to record login", zap.String("user_id", user.ID()), zap.Error(err))
	}
	user.ClearUncommittedEvents()

	return &LoginResult{
		Token:  token,
		UserID: user.ID(),
		Name:   user.Name(),
		Role:   string(user.Role()),
	}, nil
}
