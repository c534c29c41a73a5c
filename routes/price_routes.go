package routes

import (
	"github.com/cardanobuybot/tonmetric-bot/controllers"
	"github.com/gin-gonic/gin"
)

// SetupPriceRoutes configura le routes per prezzo e grafico di TON
func SetupPriceRoutes(router *gin.Engine) {
	router.GET("/price", controllers.GetTonPriceHandler())
	router.GET("/chart", controllers.GetTonChartHandler())
}
