package handler

import (
	"errors"
	"net/http"

	"covid_tracker/internal/oauth"
	"covid_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stateCookieName = "oauth_state"

// AuthHandler handles registration, login and the social-login flows
type AuthHandler struct {
	service     service.AuthService
	providers   *oauth.Registry
	frontendURL string
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, providers *oauth.Registry, frontendURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, providers: providers, frontendURL: frontendURL, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string  `json:"username"`
		Password string  `json:"password"`
		Email    *string `json:"email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "username and password required"})
		return
	}

	_, err := h.service.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"msg": "username already exists"})
			return
		}
		h.logger.Error("Failed to register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "user created"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "username and password required"})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "bad username/password"})
			return
		}
		h.logger.Error("Failed to login user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// SocialLoginRedirect sends the caller to the provider's consent page.
// The state nonce rides in a short-lived cookie and is checked on return.
func (h *AuthHandler) SocialLoginRedirect(c *gin.Context) {
	name := c.Param("provider")
	provider, ok := h.providers.Get(name)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider"})
		return
	}

	state := uuid.NewString()
	c.SetCookie(stateCookieName, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// GoogleCallback completes the Google flow. It is routed as a static
// child of the /login/:provider wildcard so the literal
// /login/callback/google URL resolves.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if c.Param("provider") != "callback" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.completeSocialLogin(c, oauth.ProviderGoogle)
}

// Authorize completes the LinkedIn flow (the redirect URI registered with
// that provider).
func (h *AuthHandler) Authorize(c *gin.Context) {
	name := c.Param("provider")
	if _, ok := h.providers.Get(name); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider"})
		return
	}
	h.completeSocialLogin(c, name)
}

func (h *AuthHandler) completeSocialLogin(c *gin.Context, providerName string) {
	provider, ok := h.providers.Get(providerName)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider"})
		return
	}

	state := c.Query("state")
	cookieState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	profile, err := provider.FetchProfile(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("Social login failed against provider",
			zap.String("provider", providerName), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "social login failed"})
		return
	}

	token, err := h.service.SocialLogin(c.Request.Context(), profile)
	if err != nil {
		h.logger.Error("Failed to complete social login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/login?token="+token)
}

// RegisterAuthRoutes registers auth and social-login routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	rg.GET("/login/:provider", h.SocialLoginRedirect)
	rg.GET("/login/:provider/google", h.GoogleCallback)
	rg.GET("/authorize/:provider", h.Authorize)
}
