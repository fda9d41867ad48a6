package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"patrimonio/internal/middleware"
)

// NewRouter configures HTTP routes for the application.
func NewRouter(server *Server, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(), middleware.RequestLogger(log))

	server.RegisterRoutes(r)
	return r
}
