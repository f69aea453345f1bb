package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type listQuery struct {
	PageToken   string `form:"page_token"`
	PageSize    int    `form:"page_size"`
	HouseholdID string `form:"household_id"`
	Status      string `form:"status"`
	Type        string `form:"type"`
}

func bindListQuery(c *gin.Context) (listQuery, error) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return listQuery{}, invalidRequestError()
	}
	query.PageToken = strings.TrimSpace(query.PageToken)
	query.HouseholdID = strings.TrimSpace(query.HouseholdID)
	query.Status = strings.ToLower(strings.TrimSpace(query.Status))
	query.Type = strings.ToLower(strings.TrimSpace(query.Type))
	return query, nil
}

// bindOptionalJSON binds a JSON body when one was sent. An empty body,
// including an empty chunked one, leaves out untouched.
func bindOptionalJSON(c *gin.Context, out any) error {
	if c.Request.ContentLength == 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return invalidRequestError()
	}
	return nil
}
