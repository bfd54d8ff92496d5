package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wordquiz/handlers"
	"wordquiz/middleware"
	"wordquiz/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware already restricts browser callers
	},
}

// AuthOptions controls whether question writes need a bearer token.
type AuthOptions struct {
	Enabled   bool
	JWTSecret string
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	questionHandler *handlers.QuestionHandler,
	questionService *services.QuestionService,
	hub *services.Hub,
	auth AuthOptions,
	logger *zap.Logger,
) {
	writeGuards := []gin.HandlerFunc{}
	if auth.Enabled {
		writeGuards = append(writeGuards, middleware.AuthMiddleware(auth.JWTSecret))
	}

	if authHandler != nil {
		authRoutes := router.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/profile", middleware.AuthMiddleware(auth.JWTSecret), authHandler.GetProfile)
		}
	}

	questions := router.Group("/questions")
	{
		questions.GET("", questionHandler.ListQuestions)
		questions.GET("/:id", questionHandler.GetQuestion)
		questions.POST("", append(writeGuards, questionHandler.CreateQuestion)...)
		questions.PUT("/:id", append(writeGuards, questionHandler.UpdateQuestion)...)
		questions.DELETE("/:id", append(writeGuards, questionHandler.DeleteQuestion)...)
	}

	// Live feed: list views refresh when questions change.
	if hub != nil {
		router.GET("/ws/questions", func(c *gin.Context) {
			difficulty := ""
			if raw := strings.TrimSpace(c.Query("difficulty")); raw != "" {
				d, ok := services.ParseDifficulty(raw)
				if !ok {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid difficulty"})
					return
				}
				difficulty = d
			}

			conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
			if err != nil {
				logger.Warn("websocket upgrade failed", zap.Error(err))
				return
			}

			hub.RegisterClient(conn, difficulty)
		})
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"hint1":  questionService.Capabilities().SupportsHint1,
		})
	})
}
