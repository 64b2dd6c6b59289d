package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/library"
)

// Both fields are pointers so a missing key can be told apart from a zero value.
type replaceLibraryRequest struct {
	Books       *[]library.Book `json:"books"`
	LastUpdated *int64          `json:"lastUpdated"`
}

// TimestampResponse carries the library's lastUpdated stamp.
type TimestampResponse struct {
	LastUpdated int64 `json:"lastUpdated"`
}

type LibraryController struct {
	library *library.Service
}

func NewLibraryController(svc *library.Service) *LibraryController {
	return &LibraryController{library: svc}
}

// GetLibrary handles GET /library.
func (l *LibraryController) GetLibrary(c *gin.Context) {
	lib, err := l.library.Get(c.Request.Context(), auth.GetAccountID(c))
	if err != nil {
		respondServiceError(c, err, "get library")
		return
	}
	if lib.Books == nil {
		lib.Books = []library.Book{}
	}
	c.JSON(http.StatusOK, lib)
}

// ReplaceLibrary handles PUT /library.
func (l *LibraryController) ReplaceLibrary(c *gin.Context) {
	var req replaceLibraryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Books == nil || req.LastUpdated == nil {
		respondBadRequest(c, "Missing books or lastUpdated")
		return
	}

	err := l.library.Replace(c.Request.Context(), auth.GetAccountID(c), *req.Books, *req.LastUpdated)
	if err != nil {
		respondServiceError(c, err, "replace library")
		return
	}

	respondSuccess(c, "Library updated successfully")
}

// GetTimestamp handles GET /library/timestamp.
func (l *LibraryController) GetTimestamp(c *gin.Context) {
	ts, err := l.library.Timestamp(c.Request.Context(), auth.GetAccountID(c))
	if err != nil {
		respondServiceError(c, err, "get library timestamp")
		return
	}
	c.JSON(http.StatusOK, TimestampResponse{LastUpdated: ts})
}
