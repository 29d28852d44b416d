// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"elogbook/internal/delivery/api/middleware"
	"elogbook/internal/delivery/api/router/handler"
	"elogbook/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	VisitHandler   *handler.VisitHandler
	ReportHandler  *handler.ReportHandler
	Scope          *middleware.ScopeMiddleware
	Guard          *middleware.SessionGuard
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	accountHandler *handler.AccountHandler
	visitHandler   *handler.VisitHandler
	reportHandler  *handler.ReportHandler
	scope          *middleware.ScopeMiddleware
	guard          *middleware.SessionGuard
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		accountHandler: params.AccountHandler,
		visitHandler:   params.VisitHandler,
		reportHandler:  params.ReportHandler,
		scope:          params.Scope,
		guard:          params.Guard,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	// Every route below runs inside a browser-session scope.
	authGroup := e.Group("/auth", r.scope.Bind)
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/session", r.authHandler.Session)
		authGroup.DELETE("/scope", r.authHandler.EndScope)
	}

	apiV1 := e.Group("/api/v1", r.scope.Bind, r.guard.RequireSession)
	admin := r.guard.RequireRole(entity.RoleAdmin)

	accountsGroup := apiV1.Group("/accounts", admin)
	{
		accountsGroup.GET("", r.accountHandler.ListAccounts)
		accountsGroup.GET("/staff", r.accountHandler.ListStaff)
		accountsGroup.GET("/:id", r.accountHandler.GetAccount)
		accountsGroup.POST("", r.accountHandler.CreateAccount)
		accountsGroup.PATCH("/:id", r.accountHandler.UpdateAccount)
		accountsGroup.DELETE("/:id", r.accountHandler.DeleteAccount)
	}

	visitsGroup := apiV1.Group("/visits")
	{
		visitsGroup.GET("", r.visitHandler.ListVisits)
		visitsGroup.GET("/today", r.visitHandler.ListToday)
		visitsGroup.GET("/mine/today", r.visitHandler.ListMineToday)
		visitsGroup.GET("/:id", r.visitHandler.GetVisit)
		visitsGroup.GET("/:id/pass", r.visitHandler.VisitPass)
		visitsGroup.POST("", r.visitHandler.LogVisit)
		visitsGroup.PATCH("/:id", r.visitHandler.UpdateVisit)
		visitsGroup.POST("/:id/checkout", r.visitHandler.CheckOut)
		visitsGroup.DELETE("/:id", r.visitHandler.DeleteVisit, admin)
	}

	reportsGroup := apiV1.Group("/reports")
	{
		reportsGroup.GET("/summary", r.reportHandler.Summary)
		reportsGroup.GET("/month-count", r.reportHandler.MonthCount)
	}
}
