package routes

import (
	"hupunachat/controllers"
	"hupunachat/middleware"
	"hupunachat/services"

	"github.com/gin-gonic/gin"
)

func RegisterFolderTreeRoutes(rg *gin.RouterGroup, jwtSecret string, treeService *services.TreeService) {
	treeController := controllers.NewFolderTreeController(treeService)

	folders := rg.Group("/folders")
	folders.Use(middleware.AuthMiddleware(jwtSecret))
	{
		// Single action-dispatched endpoint: read, saveItem, removeItem, updateTree
		folders.POST("", treeController.Handle)
	}
}
