package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	utilitydomain "github.com/smallbiznis/estate/internal/utility/domain"
)

func (s *Server) CreateUtilityBill(c *gin.Context) {
	var req utilitydomain.CreateUtilityBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.utilitySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListUtilityBills(c *gin.Context) {
	query, err := bindListQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.utilitySvc.List(c.Request.Context(), utilitydomain.ListUtilityBillRequest{
		HouseholdID: query.HouseholdID,
		Status:      query.Status,
		Type:        query.Type,
		PageToken:   query.PageToken,
		PageSize:    query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Bills,
		"page_info": resp.PageInfo,
	})
}

func (s *Server) GetUtilityBillByID(c *gin.Context) {
	resp, err := s.utilitySvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordUtilityPayment(c *gin.Context) {
	var req utilitydomain.RecordPaymentRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.utilitySvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
