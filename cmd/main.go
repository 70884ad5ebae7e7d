package main

import (
	"log"
	"net/http"
	"time"

	"hupunachat/config"
	"hupunachat/routes"
	"hupunachat/services"
	"hupunachat/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env before config so env-var defaults see it
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.LoadConfig()
	cfg := config.AppConfig

	utils.InitLogger()

	// Initialize MongoDB client
	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err = mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err = mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB successfully")

	db := mongoClient.Database(cfg.DatabaseName)

	// One document per room in each overlay collection
	if err := services.NewMongoNotesStore(db).EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create notes indexes: %v", err)
	}
	if err := services.NewMongoTreeStore(db).EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create folder-tree indexes: %v", err)
	}

	serviceContainer := routes.NewServiceContainer(db, cfg.JWTSecret)

	// Set up Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	routes.SetupRoutesWithContainer(api, serviceContainer)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		pingCtx, pingCancel := config.CreateContext(2 * time.Second)
		defer pingCancel()

		status := "ok"
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"time":   time.Now().UTC(),
		})
	})

	log.Printf("Starting Hupuna chat overlay server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		allowOrigin := ""
		if len(allowedOrigins) == 0 {
			allowOrigin = "*"
		} else {
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == requestOrigin {
					allowOrigin = allowedOrigin
					break
				}
			}
			if allowOrigin == "" && requestOrigin == "" {
				// No Origin header (curl, server-to-server), answer with the first allowed
				allowOrigin = allowedOrigins[0]
			}
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
