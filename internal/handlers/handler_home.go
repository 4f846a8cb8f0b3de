package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHome godoc
// @Summary Service banner
// @Description Returns the service name, useful as a smoke check
// @Tags home
// @Produce plain
// @Success 200 {string} string "rentora payments"
// @Router /example/helloworld [get]
func GetHome(c *gin.Context) {
	c.String(http.StatusOK, "rentora payments")
}
