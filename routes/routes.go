// routes/routes.go
package routes

import (
	"hupunachat/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceContainer holds all services and dependencies
type ServiceContainer struct {
	DB          *mongo.Database
	JWTSecret   string
	NoteService *services.NoteService
	TreeService *services.TreeService
}

// NewServiceContainer wires the overlay services onto their Mongo-backed
// stores.
func NewServiceContainer(db *mongo.Database, jwtSecret string) *ServiceContainer {
	return &ServiceContainer{
		DB:          db,
		JWTSecret:   jwtSecret,
		NoteService: services.NewNoteService(services.NewMongoNotesStore(db)),
		TreeService: services.NewTreeService(services.NewMongoTreeStore(db)),
	}
}

// SetupRoutesWithContainer configures all API routes using a service container
func SetupRoutesWithContainer(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterNoteRoutes(api, container.JWTSecret, container.NoteService)
	RegisterFolderTreeRoutes(api, container.JWTSecret, container.TreeService)
}
