package routes

import (
	"hupunachat/controllers"
	"hupunachat/middleware"
	"hupunachat/services"

	"github.com/gin-gonic/gin"
)

func RegisterNoteRoutes(rg *gin.RouterGroup, jwtSecret string, noteService *services.NoteService) {
	notesController := controllers.NewNotesController(noteService)

	notes := rg.Group("/notes")
	notes.Use(middleware.AuthMiddleware(jwtSecret)) // Overlay routes sit behind the session gate
	{
		// Single action-dispatched endpoint: read, createFolder, renameFolder,
		// deleteFolder, listKV, upsertKV, deleteKV
		notes.POST("", notesController.Handle)
	}
}
