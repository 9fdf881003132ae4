package server

import (
	"errors"
	"net/http"

	"github.com/example/tuuze/pkg/repository"
	"github.com/example/tuuze/pkg/workflow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Every response follows the {success, data?, message?} envelope.

func respondData(c *gin.Context, status int, data gin.H) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, status, count int, data gin.H) {
	c.JSON(status, gin.H{"success": true, "count": count, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// handleError maps workflow and repository failures onto the HTTP status
// set {400, 401, 403, 404, 500}. Anything unexpected is logged and hidden
// behind a generic 500.
func (s *Server) handleError(c *gin.Context, err error) {
	var werr *workflow.Error
	if errors.As(err, &werr) {
		respondError(c, statusForKind(werr.Kind), werr.Message)
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}
	s.logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	respondError(c, http.StatusInternalServerError, "Internal Server Error")
}

func statusForKind(kind workflow.Kind) int {
	switch kind {
	case workflow.KindValidation:
		return http.StatusBadRequest
	case workflow.KindNotFound:
		return http.StatusNotFound
	case workflow.KindForbidden:
		return http.StatusForbidden
	case workflow.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
