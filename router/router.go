package router

import (
	"github.com/gin-gonic/gin"

	"github.com/mat_airdrop/handler"
)

func SetupRouter(adminHandler *handler.AdminHandler) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api/admin")
	{
		api.GET("/withdrawals", adminHandler.ListWithdrawals)
		api.GET("/users/:id", adminHandler.GetUser)
		api.GET("/stats", adminHandler.GetStats)
	}

	return r
}
