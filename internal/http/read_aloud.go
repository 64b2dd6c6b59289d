package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type readAloudRequest struct {
	Text string `json:"text"`
}

type ReadAloudController struct {
	speech Synthesizer
}

func NewReadAloudController(speech Synthesizer) *ReadAloudController {
	return &ReadAloudController{speech: speech}
}

// Synthesize handles POST /readAloud. Audio is only written once the
// upstream body has been read in full.
func (r *ReadAloudController) Synthesize(c *gin.Context) {
	var req readAloudRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Text == "" {
		respondBadRequest(c, "Missing required fields")
		return
	}

	audio, err := r.speech.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		respondServiceError(c, err, "read aloud")
		return
	}

	c.Data(http.StatusOK, "audio/wav", audio)
}
