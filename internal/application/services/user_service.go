package services

import (
	"context"

	"salesdesk/internal/application/command"
)

// UserService orchestrates registration and authentication
type UserService struct {
	registerUserHandler *command.RegisterUserHandler
	loginUserHandler    *command.LoginUserHandler
}

func NewUserService(
	registerUserHandler *command.RegisterUserHandler,
	loginUserHandler *command.LoginUserHandler,
) *UserService {
	return &UserService{
		registerUserHandler: registerUserHandler,
		loginUserHandler:    loginUserHandler,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, cmd command.RegisterUser) (*command.RegisterUserResult, error) {
	return s.registerUserHandler.Handle(ctx, &cmd)
}

func (s *UserService) Login(ctx context.Context, cmd command.LoginUser) (*command.LoginResult, error) {
	return s.loginUserHandler.Handle(ctx, &cmd)
}
