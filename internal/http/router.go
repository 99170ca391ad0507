// README: HTTP router; wires middleware and module handlers onto a gin engine.
package http

import (
	nethttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rankgo/internal/http/handlers"
	"rankgo/internal/http/middleware"
	"rankgo/internal/modules/booking"
	"rankgo/internal/modules/payment"
	"rankgo/internal/modules/routes"
	"rankgo/internal/modules/vehicle"
	"rankgo/internal/notify"
	"rankgo/internal/notify/ws"
	"rankgo/internal/types"
)

type RouterDeps struct {
	Vehicles  *vehicle.Service
	Bookings  *booking.Service
	Payments  *payment.Service
	Routes    *routes.Service
	Inbox     *notify.InboxStore
	Hub       *ws.Hub
	JWTSecret string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.String(nethttp.StatusOK, "OK")
	})

	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles)
	bookingHandler := handlers.NewBookingHandler(deps.Bookings)
	paymentHandler := handlers.NewPaymentHandler(deps.Payments)
	routesHandler := handlers.NewRoutesHandler(deps.Routes)
	notificationHandler := handlers.NewNotificationHandler(deps.Inbox)

	api := r.Group("/api", middleware.Auth(deps.JWTSecret))

	api.GET("/routes/suggest", routesHandler.Suggest)

	api.GET("/vehicles", vehicleHandler.Search)
	api.GET("/vehicles/:id/availability", vehicleHandler.Availability)

	driver := api.Group("", middleware.RequireRole("driver"))
	driver.POST("/vehicles", vehicleHandler.Register)
	driver.GET("/vehicles/mine", vehicleHandler.Mine)
	driver.DELETE("/vehicles/:id", vehicleHandler.Deactivate)
	driver.PUT("/vehicles/:id/price", vehicleHandler.SetPrice)
	driver.POST("/bookings/:id/accept", bookingHandler.Accept)
	driver.POST("/bookings/:id/decline", bookingHandler.Decline)
	driver.POST("/bookings/:id/status", bookingHandler.Advance)

	passenger := api.Group("", middleware.RequireRole("passenger"))
	passenger.POST("/bookings", bookingHandler.Create)
	passenger.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	passenger.POST("/payments", paymentHandler.Process)

	api.GET("/bookings", bookingHandler.List)
	api.GET("/bookings/:id", bookingHandler.Get)

	api.GET("/notifications", notificationHandler.List)
	api.POST("/notifications/:id/read", notificationHandler.MarkRead)
	api.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	api.DELETE("/notifications", notificationHandler.Clear)

	if deps.Hub != nil {
		api.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWS(c.Writer, c.Request, types.ID(c.GetString(middleware.CtxUserID)))
		})
	}

	return r
}
