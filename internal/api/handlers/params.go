package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ayfri/ETL-1/internal/service"
)

// listParamsFromQuery reads the shared pagination and sorting query
// parameters. Values are passed through as-is, bounds checking happens
// in the service layer.
func listParamsFromQuery(c *gin.Context) service.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return service.ListParams{
		Page:  page,
		Limit: limit,
		Sort:  c.Query("sort"),
		Order: c.Query("order"),
	}
}
