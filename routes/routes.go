// Package routes wires the controllers into the gin router.
//
// Every route lives under /api/v1. Apart from the health check and the local
// uploads, requests must carry a valid Auth0 token; all but the profile
// bootstrap routes additionally need an active profile, and the role policy
// decides which tab groups a user reaches.
package routes

import (
	"net/http"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/config"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/controllers"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the controllers served by the router
type Handlers struct {
	Orders        *controllers.OrderController
	Dashboard     *controllers.DashboardController
	Invoices      *controllers.InvoiceController
	Customers     *controllers.CustomerController
	Transport     *controllers.TransportController
	Notes         *controllers.NoteController
	Organizations *controllers.OrganizationController
	Users         *controllers.UserController
	Realtime      *controllers.RealtimeController
	Uploads       *controllers.UploadController // nil when images live in S3
}

// Options configures SetupRouter
type Options struct {
	Config   *config.Config
	Log      *zap.Logger
	Auth     gin.HandlerFunc // validates the bearer token, see middleware.EnsureValidToken
	Profiles middleware.ProfileStore
	Policy   *policy.Policy
}

// SetupRouter builds the API router
func SetupRouter(opts Options, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(corsMiddleware(opts.Config), middleware.RequestLogger(opts.Log), gin.Recovery())

	pol := opts.Policy
	tab := func(t policy.Tab) gin.HandlerFunc { return middleware.RequireTab(pol, t) }

	v1 := router.Group("/api/v1")
	v1.GET("/health", HealthCheck)
	if h.Uploads != nil {
		v1.GET("/uploads/*key", h.Uploads.GetUploadedImage)
	}

	// Profile bootstrap: pending users must be able to register and poll
	// their own status.
	authed := v1.Group("", opts.Auth)
	authed.POST("/users/me", h.Users.RegisterProfile)
	authed.GET("/users/me", h.Users.GetMyProfile)

	active := authed.Group("", middleware.LoadProfile(opts.Profiles, opts.Log))
	{
		active.GET("/users/me/access", h.Users.GetMyAccess)
		active.PATCH("/users/me", h.Users.UpdateMyProfile)
		active.GET("/ws", h.Realtime.ServeWs)
		active.GET("/departments", h.Dashboard.ListDepartments)
		active.GET("/dashboard", tab(policy.TabDashboard), h.Dashboard.GetBoard)

		active.GET("/organizations", h.Organizations.ListOrganizations)
		active.GET("/organizations/:id", h.Organizations.GetOrganization)
		active.GET("/supervisors", h.Organizations.ListSupervisors)
	}

	orders := active.Group("/orders")
	{
		orders.POST("", tab(policy.TabNewOrder), h.Orders.CreateOrder)
		orders.GET("", tab(policy.TabCustomers), h.Orders.ListOrders)
		orders.GET("/:number", tab(policy.TabCustomers), h.Orders.GetOrder)
		orders.PATCH("/:number", tab(policy.TabCustomers), h.Orders.UpdateOrder)

		item := orders.Group("/:number/furniture/:item")
		item.PUT("/department", middleware.RequireCapability(pol.CanEditDepartmentField), h.Orders.UpdateDepartment)
		item.PUT("/position", middleware.RequireCapability(pol.CanReorderPriority), h.Orders.ReorderItem)
		item.POST("/move", middleware.RequireCapability(pol.CanReorderPriority), h.Orders.MoveItem)
		item.POST("/image", tab(policy.TabCustomers), h.Orders.UploadFurnitureImage)

		transport := orders.Group("/:number", tab(policy.TabTransport))
		transport.PUT("/delivery", h.Orders.ScheduleDelivery)
		transport.GET("/invoice", h.Invoices.GetInvoice)
		transport.POST("/invoice", h.Invoices.FinalizeInvoice)
		transport.GET("/notes", h.Notes.ListNotes)
		transport.POST("/notes", h.Notes.CreateNote)
		transport.DELETE("/notes/:id", h.Notes.DeleteNote)
	}

	customers := active.Group("/customers", tab(policy.TabCustomers))
	{
		customers.GET("", h.Customers.ListCustomers)
		customers.GET("/:key", h.Customers.GetCustomer)
	}

	transport := active.Group("/transport", tab(policy.TabTransport))
	{
		transport.GET("/ready", h.Transport.ListReady)
		transport.GET("/day", h.Transport.GetDayPlan)
	}

	admin := active.Group("", tab(policy.TabUsers))
	{
		admin.GET("/users", h.Users.ListUsers)
		admin.POST("/users", h.Users.CreateUser)
		admin.PATCH("/users/:uid", h.Users.UpdateUser)

		admin.POST("/organizations", h.Organizations.CreateOrganization)
		admin.PATCH("/organizations/:id", h.Organizations.UpdateOrganization)

		admin.POST("/supervisors", h.Organizations.CreateSupervisor)
		admin.PUT("/supervisors/:id", h.Organizations.UpdateSupervisor)
		admin.DELETE("/supervisors/:id", h.Organizations.DeleteSupervisor)
	}

	return router
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	if len(cfg.CORSAllowedOrigins) == 0 {
		// same-origin deployments
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// HealthCheck handles GET /api/v1/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Nieuwe Nostalgie API is running",
	})
}
