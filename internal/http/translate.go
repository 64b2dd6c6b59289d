package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/translate"
)

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type LanguagesResponse struct {
	Languages []translate.Language `json:"languages"`
}

type TranslateController struct {
	translator Translator
}

func NewTranslateController(translator Translator) *TranslateController {
	return &TranslateController{translator: translator}
}

// Translate handles POST /translate.
func (t *TranslateController) Translate(c *gin.Context) {
	var req translateRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Text == "" || req.TargetLang == "" {
		respondBadRequest(c, "Missing required fields")
		return
	}

	translated, err := t.translator.Translate(c.Request.Context(), req.Text, req.TargetLang)
	if err != nil {
		respondServiceError(c, err, "translate")
		return
	}

	c.JSON(http.StatusOK, TranslateResponse{TranslatedText: translated})
}

// Languages handles GET /translate/languages.
func (t *TranslateController) Languages(c *gin.Context) {
	langs, err := t.translator.Languages(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list languages")
		return
	}
	if langs == nil {
		langs = []translate.Language{}
	}
	c.JSON(http.StatusOK, LanguagesResponse{Languages: langs})
}
