package fakestore

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter はストアのルーターをセットアップし、すべてのエンドポイントを /api 配下に登録します。
// allowOrigins が空でなければCORSを有効にします。
func NewRouter(store *Store, allowOrigins ...string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(allowOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = allowOrigins
		config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
		r.Use(cors.New(config))
	}

	h := NewHandler(store)
	api := r.Group("/api")
	{
		api.GET("/Users", h.ListUsers)
		api.GET("/Users/search", h.SearchUsers)
		api.GET("/Users/email/:email", h.GetUserByEmail)
		api.GET("/Users/:id", h.GetUser)
		api.POST("/Users", h.CreateUser)
		api.PUT("/Users/:id", h.UpdateUser)
		api.DELETE("/Users/:id", h.DeleteUser)

		api.GET("/Todos", h.ListTodos)
		api.GET("/Todos/overdue", h.ListOverdueTodos)
		api.GET("/Todos/daterange", h.ListTodosByDateRange)
		api.GET("/Todos/user/:userId", h.ListTodosByUser)
		api.GET("/Todos/:id", h.GetTodo)
		api.POST("/Todos", h.CreateTodo)
		api.PUT("/Todos/:id", h.UpdateTodo)
		api.DELETE("/Todos/:id", h.DeleteTodo)

		api.GET("/Data/status", h.Status)
		api.GET("/Data/summary", h.Summary)
		api.POST("/Data/reset", h.Reset)
		api.POST("/Data/initialize", h.Initialize)
	}
	return r
}
