package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/humanmade/authorship/internal/shared/middleware"
	"github.com/humanmade/authorship/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	auth := middleware.Auth(c.JWTManager, c.UserRepo)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		v1.POST("/auth/login", c.UserHandler.Login)

		posts := v1.Group("/posts")
		{
			posts.GET("", c.PostHandler.List)
			posts.GET("/:id", c.PostHandler.Get)
			posts.POST("", auth, c.PostHandler.Create)
			posts.PATCH("/:id", auth, c.PostHandler.Update)
		}
	}

	// The author endpoints live in their own namespace with a restricted
	// surface, separate from the host's native user routes.
	authorship := router.Group("/authorship/v1")
	authorship.Use(auth)
	{
		authorship.GET("/users", c.UserHandler.List)
		authorship.GET("/users/:id", c.UserHandler.Get)
		authorship.POST("/users", c.UserHandler.Create)
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "ok"
		httpStatus := http.StatusOK

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, gin.H{
			"status":  status,
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	}
}
