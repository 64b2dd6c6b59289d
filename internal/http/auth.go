package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/config"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ValidateResponse identifies the account behind a valid token.
type ValidateResponse struct {
	UserID string `json:"userId"`
}

type AuthController struct {
	accounts *auth.Service
	tokens   *auth.TokenService
	limiter  *auth.LoginLimiter
	cfg      config.Auth
}

func NewAuthController(accounts *auth.Service, tokens *auth.TokenService, limiter *auth.LoginLimiter, cfg config.Auth) *AuthController {
	return &AuthController{
		accounts: accounts,
		tokens:   tokens,
		limiter:  limiter,
		cfg:      cfg,
	}
}

func (a *AuthController) issue(c *gin.Context, status int, accountID uint, message string) {
	token, err := a.tokens.Issue(accountID)
	if err != nil {
		respondInternalError(c, err, "issue token")
		return
	}
	auth.SetTokenCookie(c, token, a.tokens.Expiry(), a.cfg)
	c.JSON(status, TokenResponse{Message: message, Token: token})
}

// Register handles POST /auth/register.
func (a *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	accountID, err := a.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "register")
		return
	}

	a.issue(c, http.StatusCreated, accountID, "User created successfully")
}

// Login handles POST /auth/login.
func (a *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	accountID, err := a.accounts.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if a.limiter != nil && req.Username != "" && errors.Is(err, auth.ErrInvalidCredentials) {
			a.limiter.RecordFailure(c.ClientIP(), req.Username)
		}
		respondServiceError(c, err, "login")
		return
	}

	if a.limiter != nil {
		a.limiter.RecordSuccess(c.ClientIP(), req.Username)
	}
	a.issue(c, http.StatusOK, accountID, "Login successful")
}

// Logout handles POST /auth/logout. Tokens stay valid until they expire.
func (a *AuthController) Logout(c *gin.Context) {
	auth.ClearTokenCookie(c, a.cfg)
	respondSuccess(c, "Logged out successfully")
}

// Validate handles GET /auth/validate.
func (a *AuthController) Validate(c *gin.Context) {
	account, err := a.accounts.Lookup(c.Request.Context(), auth.GetAccountID(c))
	if err != nil {
		respondServiceError(c, err, "validate token")
		return
	}
	c.JSON(http.StatusOK, ValidateResponse{UserID: strconv.FormatUint(uint64(account.ID), 10)})
}
