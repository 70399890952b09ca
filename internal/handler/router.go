package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/middleware"
	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Courses       *CourseHandler
	Students      *StudentHandler
	Attendance    *AttendanceHandler
	Dashboard     *DashboardHandler
	Notifications *NotificationHandler
	Rooms         *RoomHandler
	Status        *StatusHandler
}

// RegisterRoutes attaches all API routes under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/admin", h.Auth.AdminLogin)

	api.GET("/users", h.Users.List)
	api.POST("/users", h.Users.Create)
	protected := api.Group("/users", middleware.JWT(auth))
	protected.GET("/:uid", middleware.RBAC(string(models.RoleAdmin), middleware.SelfParam), h.Users.Get)
	protected.PATCH("/:uid", middleware.RBAC(string(models.RoleAdmin), middleware.SelfParam), h.Users.Update)
	protected.DELETE("/:uid", middleware.RequireRoles(models.RoleAdmin), h.Users.Delete)

	api.GET("/courses", h.Courses.List)
	api.POST("/courses", h.Courses.Create)
	api.GET("/courses/:id", h.Courses.Get)
	api.DELETE("/courses/:id", h.Courses.Delete)

	api.GET("/students", h.Students.List)
	api.POST("/students", h.Students.Import)

	api.GET("/attendance", h.Attendance.List)
	api.POST("/attendance", h.Attendance.Submit)
	api.GET("/attendance/:id/export", h.Attendance.Export)

	api.GET("/dashboard/stats", h.Dashboard.Stats)
	api.GET("/notifications", h.Notifications.List)

	api.GET("/rooms", h.Rooms.List)
	api.POST("/rooms", h.Rooms.Create)
	api.GET("/rooms/:id", h.Rooms.Get)
	api.DELETE("/rooms/:id", h.Rooms.Delete)
	api.GET("/bookings", h.Rooms.ListBookings)
	api.POST("/bookings", h.Rooms.CreateBooking)

	api.GET("/status", h.Status.Get)
}
