package api

import (
	"net/http"

	"github.com/chiehyu/popodoc/api/handlers"
	"github.com/chiehyu/popodoc/config"
	"github.com/chiehyu/popodoc/db/persondb"
	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/services/bot"
	"github.com/chiehyu/popodoc/validation"
	"github.com/gin-gonic/gin"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, db persondb.DB, botService *bot.Service, validator *validation.Validator, cfg *config.Config) {
	router.GET("/health", health())

	handlers.SetupPersonnel(router, logger, db, validator, cfg)
	handlers.SetupWebhook(router, logger, botService, cfg.GetLineChannelSecret())
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
