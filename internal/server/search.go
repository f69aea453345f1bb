package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	searchdomain "github.com/smallbiznis/estate/internal/search/domain"
	"go.uber.org/zap"
)

// Search never fails the request: an unavailable search answers with an
// empty result list.
func (s *Server) Search(c *gin.Context) {
	results, err := s.searchSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.log.Warn("search failed", zap.Error(err))
		results = nil
	}
	if results == nil {
		results = []searchdomain.Result{}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
