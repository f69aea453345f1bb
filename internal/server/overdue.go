package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	obscontext "github.com/smallbiznis/estate/internal/observability/context"
)

type overdueResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

func (s *Server) UpdateOverduePayments(c *gin.Context) {
	s.updateOverdue(c, billingdomain.KindPayments, "payments")
}

func (s *Server) UpdateOverdueUtilities(c *gin.Context) {
	s.updateOverdue(c, billingdomain.KindUtilityBills, "utility bills")
}

func (s *Server) updateOverdue(c *gin.Context, kind billingdomain.Kind, label string) {
	ctx := obscontext.WithActor(c.Request.Context(), "http", c.ClientIP())

	res, err := s.billingSvc.Sweep(ctx, kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overdueResponse{
		Message: fmt.Sprintf("%d %s marked overdue", res.Count, label),
		Count:   res.Count,
	})
}
