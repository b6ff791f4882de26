package handlers

import (
	"errors"
	"net/http"

	"creatorhub/middleware"
	"creatorhub/models"
	"creatorhub/services/guard"
	"creatorhub/services/session"
	"creatorhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

type sessionResponse struct {
	Session *models.Session `json:"session"`
	Landing string          `json:"landing"`
}

func newSessionResponse(s *models.Session) sessionResponse {
	return sessionResponse{Session: s, Landing: middleware.ViewPath(guard.Landing(s.Role))}
}

// LoginHandler signs in with email and password.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.Credentials
	if err := c.ShouldBind(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	s, err := h.Sessions.Login(c.Request.Context(), req)
	if err != nil {
		logger.Info("Login failed", zap.String("email", req.Email), zap.Error(err))
		status := http.StatusUnauthorized
		if errors.Is(err, session.ErrNetwork) {
			status = http.StatusBadGateway
		}
		utils.JSONError(c, status, userMessage(err), "")
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

// FederatedCallbackHandler completes a federated sign-in with the code the
// identity provider redirected back with.
func (h *AuthHandler) FederatedCallbackHandler(c *gin.Context) {
	logger := getLogger(c)

	code := c.Query("code")
	if code == "" {
		utils.JSONError(c, http.StatusBadRequest, session.ErrFederatedAuth.Error(), "missing code")
		return
	}

	s, err := h.Sessions.LoginWithFederatedCode(c.Request.Context(), code)
	if err != nil {
		logger.Info("Federated login failed", zap.Error(err))
		status := http.StatusUnauthorized
		if errors.Is(err, session.ErrNetwork) {
			status = http.StatusBadGateway
		}
		utils.JSONError(c, status, userMessage(err), "")
		return
	}
	c.Redirect(http.StatusFound, middleware.ViewPath(guard.Landing(s.Role)))
}

// LogoutHandler always succeeds; the backend is told on a best-effort basis.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	h.Sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// WhoAmIHandler reports the live session, if any.
func (h *AuthHandler) WhoAmIHandler(c *gin.Context) {
	s := h.Sessions.Current()
	if s == nil {
		c.JSON(http.StatusOK, gin.H{"session": nil, "state": h.Sessions.State().String()})
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

// userMessage picks the user-facing sentinel out of a session error.
func userMessage(err error) string {
	for _, target := range []error{session.ErrNetwork, session.ErrFederatedAuth, session.ErrInvalidCredentials} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
