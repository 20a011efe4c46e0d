// Package web gin server
package web

import (
	"net/http"

	ginMw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/telegram-file-bot/library/log"
)

var (
	server = gin.New()
)

// RunServer runs the keep-alive HTTP server beside the bot. The hosting
// platform probes these endpoints; nothing else is served.
func RunServer(addr string) {
	server.Use(
		gin.Recovery(),
		ginMw.NewLoggerMiddleware(
			ginMw.WithLoggerMwColored(),
			ginMw.WithLevel(log.Logger.Level().String()),
			ginMw.WithLogger(log.Logger.Named("gin")),
		),
	)
	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := ginMw.EnableMetric(server); err != nil {
		log.Logger.Panic("enable metric server", zap.Error(err))
	}

	server.Any("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "Bot is running",
			"service": "Telegram File Management Bot",
		})
	})
	server.Any("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	server.GET("/favicon.ico", func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	server.GET("/debug", func(ctx *gin.Context) {
		// settings presence only, never the values
		ctx.JSON(http.StatusOK, gin.H{
			"bot_token_set": gconfig.Shared.GetString("settings.telegram.token") != "",
			"db_addr_set":   gconfig.Shared.GetString("settings.db.addr") != "",
			"listen":        gconfig.Shared.GetString("listen"),
			"debug":         gconfig.Shared.GetBool("debug"),
		})
	})

	log.Logger.Info("listening on http", zap.String("addr", addr))
	log.Logger.Panic("httpServer exit", zap.Error(server.Run(addr)))
}
