package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/remedymatch"
	"github.com/poiesic/remedymatch/core"
	"github.com/poiesic/remedymatch/lookup"
)

const (
	msgNameRequired  = "Please provide a medicine name."
	msgNotFound      = "No data found for this medicine."
	msgTimeout       = "Request to FDA API timed out."
	msgRequestFailed = "API request failed: "
	msgNoRoute       = "Endpoint not found."
	msgInternalError = "Internal server error."
)

// effectResponse is the body of a successful lookup.
type effectResponse struct {
	Effect   string             `json:"effect"`
	Remedies []core.MatchResult `json:"remedies"`
}

type healthResponse struct {
	Status      string `json:"status"`
	CorpusSize  int    `json:"corpus_size"`
	Fingerprint string `json:"fingerprint"`
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

func (s *Server) getMedicineEffect(c *gin.Context) {
	name := c.Query("medicine_name")

	report, err := s.matcher.Match(c.Request.Context(), name)
	if err != nil {
		status, msg := describeError(err)
		s.logger.Warn("medicine lookup failed", "medicine", name, "status", status, "err", err)
		c.JSON(status, errorBody(msg))
		return
	}

	remedies := report.Remedies
	if remedies == nil {
		remedies = []core.MatchResult{}
	}
	c.JSON(http.StatusOK, effectResponse{
		Effect:   report.Effect,
		Remedies: remedies,
	})
}

// describeError maps a Match error to a status code and client message.
func describeError(err error) (int, string) {
	switch {
	case errors.Is(err, remedymatch.ErrMedicineNameRequired):
		return http.StatusBadRequest, msgNameRequired
	case errors.Is(err, lookup.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, lookup.ErrTimeout):
		return http.StatusNotFound, msgTimeout
	default:
		return http.StatusNotFound, msgRequestFailed + err.Error()
	}
}

func (s *Server) healthz(c *gin.Context) {
	corpus := s.matcher.Corpus()
	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		CorpusSize:  corpus.Len(),
		Fingerprint: corpus.Fingerprint().String(),
	})
}

func noRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorBody(msgNoRoute))
}
