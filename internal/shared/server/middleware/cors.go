package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows browser calls from the configured origins. Entries that are not
// http(s) origins are ignored.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	var origins []string
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			origins = append(origins, o)
		}
	}

	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Guest-Id", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}
