package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahulm/classtrack/internal/app/controllers"
	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/metrics"
	"github.com/rahulm/classtrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	importController *controllers.ImportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public routes ---
	router.POST("/login", authController.Login)
	router.POST("/register", authController.Register)
	router.POST("/createStaff", authController.CreateStaff)

	router.POST("/uploadStudents", importController.UploadStudents)

	router.GET("/student/:id", studentController.GetStudent)
	router.GET("/students", studentController.ListStudents)
	router.POST("/updateByUsername", studentController.UpdateByUsername)
	router.DELETE("/deleteStudent/:id", studentController.DeleteStudent)
	router.GET("/adminStats", studentController.AdminStats)

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		staffOnly := authenticated.Group("")
		staffOnly.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleStaff)))
		{
			staffOnly.GET("/exportStudents", studentController.ExportStudents)
		}
	}

	// --- Operational endpoints ---
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "Server OK")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
