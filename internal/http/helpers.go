package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/library"
	"github.com/Duke0404/react-reader-backend/internal/speech"
	"github.com/Duke0404/react-reader-backend/internal/translate"
)

// Machine-readable error codes.
const (
	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidToken       = "invalid_token"
	CodeInvalidCredentials = "invalid_credentials"
	CodeConflict           = "conflict"
	CodeNotFound           = "not_found"
	CodeTooManyRequests    = "too_many_requests"
	CodeBadGateway         = "bad_gateway"
	CodeServerError        = "server_error"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// MessageResponse is a plain success message.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Error Response Helpers ---

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Code: code})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeBadRequest, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, CodeNotFound, message)
}

// respondBadGateway logs the upstream failure and sends a 502 response.
func respondBadGateway(c *gin.Context, err error, context, message string) {
	slog.Error("upstream request failed", "context", context, "error", err, "path", c.FullPath())
	respondError(c, http.StatusBadGateway, CodeBadGateway, message)
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("internal error", "context", context, "error", err, "path", c.FullPath())
	respondError(c, http.StatusInternalServerError, CodeServerError, "Server error")
}

// respondServiceError maps a service error to its status and code.
func respondServiceError(c *gin.Context, err error, context string) {
	var validation *auth.ValidationError
	switch {
	case errors.As(err, &validation):
		respondBadRequest(c, validation.Message)
	case errors.Is(err, auth.ErrUserExists):
		respondError(c, http.StatusConflict, CodeConflict, "User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, auth.ErrUnknownAccount):
		respondError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid token")
	case errors.Is(err, library.ErrAccountNotFound):
		respondNotFound(c, "User not found")
	case errors.Is(err, library.ErrInvalidPayload):
		respondBadRequest(c, "Invalid base64 payload")
	case errors.Is(err, translate.ErrMissingFields), errors.Is(err, speech.ErrEmptyText):
		respondBadRequest(c, "Missing required fields")
	case errors.Is(err, translate.ErrUnsupportedLanguage):
		respondBadRequest(c, "Unsupported target language")
	case errors.Is(err, translate.ErrUpstream):
		respondBadGateway(c, err, context, "Failed to translate text")
	case errors.Is(err, speech.ErrUpstream):
		respondBadGateway(c, err, context, "Failed to synthesize speech")
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// bindJSON decodes the request body or answers 400. Oversized bodies are
// reported as such.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondBadRequest(c, "Request body too large")
			return false
		}
		respondBadRequest(c, "Invalid request body")
		return false
	}
	return true
}
