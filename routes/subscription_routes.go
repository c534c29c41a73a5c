package routes

import (
	"github.com/cardanobuybot/tonmetric-bot/controllers"
	"github.com/cardanobuybot/tonmetric-bot/repository"
	"github.com/gin-gonic/gin"
)

// SetupSubscriptionRoutes configura tutte le routes per le iscrizioni
func SetupSubscriptionRoutes(router *gin.Engine, repo *repository.SubscriptionRepository) {
	subRoutes := router.Group("/subscriptions")
	{
		subRoutes.GET("/", controllers.GetSubscriptions(repo))
		subRoutes.GET("/active", controllers.GetActiveSubscriptions(repo))
		subRoutes.POST("/", controllers.CreateSubscription(repo))
		subRoutes.DELETE("/:chat_id", controllers.DeleteSubscription(repo))
	}
}
