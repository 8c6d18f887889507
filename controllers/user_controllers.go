package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/middlewares"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type UserController struct {
	Auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{Auth: auth}
}

func (uc *UserController) Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := uc.Auth.Register(c.Request.Context(), services.RegisterInput{
		FullName: body.FullName,
		Email:    body.Email,
		Phone:    body.Phone,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Registration successful", newAuthResponse(res))
}

// Login -> identifier may be an email address or a phone number
func (uc *UserController) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := uc.Auth.Login(c.Request.Context(), body.LoginIdentifier(), body.Password)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", newAuthResponse(res))
}

func (uc *UserController) Logout(c *gin.Context) {
	token := middlewares.BearerToken(c)
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
		return
	}
	uc.Auth.Logout(c.Request.Context(), token)
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

func newAuthResponse(res *services.AuthResult) AuthResponse {
	return AuthResponse{
		Token:    res.Token,
		Type:     "Bearer",
		UserID:   res.User.ID,
		Email:    res.User.Email,
		Phone:    res.User.Phone,
		FullName: res.User.FullName,
		Role:     res.User.Role,
	}
}
