package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/show-ticket-office/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/show-ticket-office/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems probe this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the operator login endpoint under /v1/auth.
// Buyers never log in here: the conversational front-end mints their
// tokens with the shared signing secret.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/operator-login", a.OperatorLogin)
}

// RegisterBuyer registers the buyer-facing endpoints under /v1.  All of
// them require a valid access token; operators may use them too, e.g.
// to walk through a purchase while assisting a buyer.
//
// cacheMW is applied to the show listing and show detail reads only —
// the seat map must never be served stale.  limitMW throttles the
// state-changing endpoints.  Either middleware may be nil when Redis
// is not configured.
func RegisterBuyer(e *echo.Echo, b *handler.BuyerHandler, jwtSecret string, cacheMW, limitMW echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER", "OPERATOR"))

	if cacheMW != nil {
		g.GET("/shows", b.ListShows, cacheMW)
		g.GET("/shows/:id", b.GetShow, cacheMW)
	} else {
		g.GET("/shows", b.ListShows)
		g.GET("/shows/:id", b.GetShow)
	}
	g.GET("/shows/:id/seats", b.SeatMap)

	mutating := []echo.MiddlewareFunc{}
	if limitMW != nil {
		mutating = append(mutating, limitMW)
	}
	g.POST("/shows/:id/seats/:code/toggle", b.ToggleSeat, mutating...)
	g.POST("/shows/:id/confirm", b.ConfirmSeats, mutating...)
	g.POST("/orders", b.CreateOrder, mutating...)

	g.GET("/session", b.GetSession)
	g.PUT("/session", b.PutSession)
	g.DELETE("/session", b.DeleteSession)
}

// RegisterOperator registers the operator endpoints under /v1/operator.
// Every route requires the OPERATOR role.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, jwtSecret string) {
	g := e.Group("/v1/operator")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OPERATOR"))

	g.POST("/shows", o.CreateShow)
	g.PATCH("/shows/:id/price", o.UpdatePrice)

	g.GET("/orders", o.ListOrders)
	g.GET("/orders/:id", o.GetOrder)
	g.POST("/orders/:id/approve", o.ApproveOrder)
	g.POST("/orders/:id/reject", o.RejectOrder)
}
