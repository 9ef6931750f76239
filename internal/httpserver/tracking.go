package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pricewatch/internal/domain"
)

// runTrackingHandler triggers one tracking pass. Only a store failure turns
// into a non-2xx response; an empty catalog is a reported, successful call.
func runTrackingHandler(svc TrackerService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Run(c.Request.Context())
		if err != nil {
			if errors.Is(err, domain.ErrNoProducts) {
				c.JSON(http.StatusOK, gin.H{"message": "no products to track", "data": []domain.Product{}})
				return
			}
			logger.Printf("httpserver: tracking run failed error=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "tracking run failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   summary.Message,
			"attempted": summary.Attempted,
			"data":      summary.Updated,
		})
	}
}
