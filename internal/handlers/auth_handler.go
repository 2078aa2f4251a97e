package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "apexfund/internal/errors"
	"apexfund/internal/middleware"
	"apexfund/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService services.AuthServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// ProfileResponse wraps the signed-in investor.
type ProfileResponse struct {
	User services.Profile `json:"user"`
}

// Login handles the investor login form
// @Summary     Log in
// @Description Validate the login form and issue a session token. Any well-formed email and password are accepted.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body     services.LoginInput true "Login form"
// @Success     200     {object} services.Session    "Session token"
// @Failure     400     {object} ErrorResponse       "Invalid input"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.authService.Login(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout ends the session. Tokens are stateless, so the client discards it.
// @Summary     Log out
// @Tags        auth
// @Success     204
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// GetProfile returns the investor carried by the session token
// @Summary     Get profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ProfileResponse "Signed-in investor"
// @Failure     401 {object} ErrorResponse   "Unauthorized"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{User: services.Profile{Name: claims.Name, Email: claims.Email}})
}
