package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc reports whether the backing store is reachable.
type PingFunc func(ctx context.Context) error

func Health(ping PingFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"

		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.Printf("[%s] [WARN] store ping failed: %v", route, err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Database unavailable"})
				return
			}
		}

		respond(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	}
}
