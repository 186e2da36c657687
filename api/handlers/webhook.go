package handlers

import (
	"net/http"

	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/services/bot"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

func SetupWebhook(router *gin.Engine, logger logger.Logger, botService *bot.Service, channelSecret string) {
	router.POST("/linebot/callback", handleWebhook(botService, logger, channelSecret))
}

// handleWebhook verifies the LINE signature while parsing the callback body.
// A signature mismatch rejects the whole callback before any event reaches
// the bot service.
func handleWebhook(botService *bot.Service, logger logger.Logger, channelSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callback, err := webhook.ParseRequest(channelSecret, c.Request)
		if err != nil {
			logger.Warn("could not parse webhook callback", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusBadRequest, []string{"invalid signature"})
			return
		}

		botService.HandleEvents(c.Request.Context(), callback.Events)

		c.String(http.StatusOK, "OK")
	}
}
