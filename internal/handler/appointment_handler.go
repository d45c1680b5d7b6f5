package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-api/internal/middleware"
	"booking-api/internal/model"
	"booking-api/internal/service"
)

type appointmentView struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Title     string       `json:"title"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
	Duration  int          `json:"duration"`
	Status    model.Status `json:"status"`
	Notes     string       `json:"notes"`
	CreatedAt string       `json:"createdAt"`
}

func toView(a *model.Appointment) appointmentView {
	v := appointmentView{
		ID:       a.ID,
		UserID:   a.UserID,
		Title:    a.Title,
		Date:     a.Date,
		Time:     a.Time,
		Duration: a.Duration,
		Status:   a.Status,
		Notes:    a.Notes,
	}
	if !a.CreatedAt.IsZero() {
		v.CreatedAt = a.CreatedAt.UTC().Format("2006-01-02")
	}
	return v
}

func (h *Handler) ListAppointments(c *gin.Context) {
	apts, err := h.apts.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]appointmentView, len(apts))
	for i := range apts {
		out[i] = toView(&apts[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	a, err := h.apts.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toView(a))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	a, err := h.apts.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(a))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var in service.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	a, err := h.apts.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(a))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.apts.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted"})
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	free, err := h.slots.Available(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, free)
}
