package server

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	householddomain "github.com/smallbiznis/estate/internal/household/domain"
)

func (s *Server) CreateHousehold(c *gin.Context) {
	var req householddomain.CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.householdSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListHouseholds(c *gin.Context) {
	query, err := bindListQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.householdSvc.List(c.Request.Context(), householddomain.ListHouseholdRequest{
		Status:    query.Status,
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Households,
		"page_info": resp.PageInfo,
	})
}

// GetHouseholdByID returns the household with its resident count and
// outstanding balance at the top level of the body.
func (s *Server) GetHouseholdByID(c *gin.Context) {
	resp, err := s.householdSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetHouseholdBalance(c *gin.Context) {
	resp, err := s.householdSvc.GetBalance(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetHouseholdStatement(c *gin.Context) {
	statement, err := s.householdSvc.Statement(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	content, err := io.ReadAll(statement.Content)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": statement.FileName}))
	c.Data(http.StatusOK, "application/pdf", content)
}

func (s *Server) AddHouseholdMember(c *gin.Context) {
	var req householddomain.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.HouseholdID = strings.TrimSpace(c.Param("id"))

	resp, err := s.householdSvc.AddMember(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListHouseholdMembers(c *gin.Context) {
	resp, err := s.householdSvc.ListMembers(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddParkingSlot(c *gin.Context) {
	var req householddomain.AddParkingSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.HouseholdID = strings.TrimSpace(c.Param("id"))

	resp, err := s.householdSvc.AddParkingSlot(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListParkingSlots(c *gin.Context) {
	resp, err := s.householdSvc.ListParkingSlots(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
