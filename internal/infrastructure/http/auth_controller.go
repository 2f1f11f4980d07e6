package http

import (
	"encoding/json"
	"net/http"

	"salesdesk/internal/application/command"
	"salesdesk/internal/application/services"
	"salesdesk/pkg/errors"
	"salesdesk/pkg/middleware"
	"salesdesk/pkg/response"
)

// AuthController exposes registration and login
type AuthController struct {
	userService *services.UserService
}

func NewAuthController(userService *services.UserService) *AuthController {
	return &AuthController{userService: userService}
}

// Register handles POST /auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}

	result, err := c.userService.RegisterUser(r.Context(), command.RegisterUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendCreated(w, r, map[string]interface{}{
		"id":    result.UserID,
		"name":  result.Name,
		"email": result.Email,
		"role":  result.Role,
	})
}

// Login handles POST /auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}

	result, err := c.userService.Login(r.Context(), command.LoginUser{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, map[string]interface{}{
		"token": result.Token,
		"id":    result.UserID,
		"name":  result.Name,
		"role":  result.Role,
	})
}
