package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/dictionary"
	"github.com/mrlokans/annotator/internal/logging"
)

// LookupController backs the click-to-lookup link on highlighted words.
type LookupController struct {
	client dictionary.Client
}

func NewLookupController(client dictionary.Client) *LookupController {
	return &LookupController{client: client}
}

// Lookup returns dictionary data for a word, shaped to pre-fill a tooltip
// GET /api/lookup?word=
func (lc *LookupController) Lookup(c *gin.Context) {
	word := strings.TrimSpace(c.Query("word"))
	if word == "" {
		respondBadRequest(c, "word is required")
		return
	}

	result, err := lc.client.Lookup(c.Request.Context(), word)
	if errors.Is(err, dictionary.ErrNotFound) {
		respondNotFound(c, "word")
		return
	}
	if err != nil {
		log := logging.Component("http")
		log.Warn().Err(err).Str("provider", lc.client.Name()).Str("word", word).Msg("dictionary lookup failed")
		respondError(c, http.StatusBadGateway, "dictionary lookup failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
