// Package handler exposes the booking services over REST with gin.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"booking-api/internal/middleware"
	"booking-api/internal/service"
)

type Handler struct {
	auth  *service.AuthService
	apts  *service.AppointmentService
	slots *service.SlotService
	log   logrus.FieldLogger
	now   func() time.Time
}

func New(auth *service.AuthService, apts *service.AppointmentService, slots *service.SlotService, log logrus.FieldLogger) *Handler {
	return &Handler{auth: auth, apts: apts, slots: slots, log: log, now: time.Now}
}

// Routes mounts the API at the root and again under /api. authLimit guards
// register and login; pass nil to leave them unlimited.
func (h *Handler) Routes(r gin.IRouter, authLimit gin.HandlerFunc) {
	for _, prefix := range []string{"", "/api"} {
		h.mount(r.Group(prefix), authLimit)
	}
	r.GET("/api/v1/health", h.Health)
}

func (h *Handler) mount(g *gin.RouterGroup, authLimit gin.HandlerFunc) {
	g.GET("/health", h.Health)
	g.GET("/slots", h.AvailableSlots)

	open := []gin.HandlerFunc{}
	if authLimit != nil {
		open = append(open, authLimit)
	}
	a := g.Group("/auth")
	a.POST("/register", append(open, h.Register)...)
	a.POST("/login", append(open, h.Login)...)
	a.GET("/me", middleware.Auth(h.auth), h.Me)

	apts := g.Group("/appointments", middleware.Auth(h.auth))
	apts.GET("", h.ListAppointments)
	apts.POST("", h.CreateAppointment)
	apts.GET("/slots", h.AvailableSlots)
	apts.GET("/:id", h.GetAppointment)
	apts.PUT("/:id", h.UpdateAppointment)
	apts.DELETE("/:id", h.DeleteAppointment)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
