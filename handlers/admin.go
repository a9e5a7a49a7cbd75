package handlers

import (
	"net/http"
	"time"

	appointmentRepo "clinicbot/database/repository/appointment"
	"clinicbot/services/payments"
	"clinicbot/services/reports"
	"clinicbot/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the clinic owner's back office: reports, the day's
// schedule and card payment intents.
type AdminHandler struct {
	reports  *reports.Service
	repo     appointmentRepo.AppointmentRepository
	payments payments.Gateway
}

func NewAdminHandler(reportSvc *reports.Service, repo appointmentRepo.AppointmentRepository, gateway payments.Gateway) *AdminHandler {
	return &AdminHandler{reports: reportSvc, repo: repo, payments: gateway}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// DailyReportHandler returns the financial report for a date, as JSON or as a
// downloadable PDF with format=pdf.
func (h *AdminHandler) DailyReportHandler(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if !validDate(date) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "expected YYYY-MM-DD")
		return
	}

	report, err := h.reports.DailyReport(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build report", err.Error())
		return
	}

	if c.Query("format") == "pdf" {
		path, err := h.reports.WritePDF(report)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to render report", err.Error())
			return
		}
		c.FileAttachment(path, "informe_"+date+".pdf")
		return
	}
	c.JSON(http.StatusOK, report)
}

// RangeReportHandler returns the financial report for an inclusive range.
func (h *AdminHandler) RangeReportHandler(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if !validDate(from) || !validDate(to) || from > to {
		utils.JSONError(c, http.StatusBadRequest, "Invalid range", "expected from/to as YYYY-MM-DD with from <= to")
		return
	}

	report, err := h.reports.RangeReport(c.Request.Context(), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build report", err.Error())
		return
	}

	if c.Query("format") == "pdf" {
		path, err := h.reports.WritePDF(report)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to render report", err.Error())
			return
		}
		c.FileAttachment(path, "informe_"+from+"_"+to+".pdf")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListAppointmentsHandler returns the full schedule for a date, cancelled
// included.
func (h *AdminHandler) ListAppointmentsHandler(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if !validDate(date) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "expected YYYY-MM-DD")
		return
	}

	appts, err := h.repo.ListByDate(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "appointments": appts})
}

type paymentIntentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
}

// PaymentIntentHandler creates a card payment intent for an appointment's
// outstanding amount.
func (h *AdminHandler) PaymentIntentHandler(c *gin.Context) {
	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	appt, err := h.repo.GetAppointment(c.Request.Context(), req.AppointmentID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch appointment", err.Error())
		return
	}
	if appt == nil {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", req.AppointmentID)
		return
	}
	if appt.PaymentAmount <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Nothing to charge", "appointment has no outstanding amount")
		return
	}

	intent, err := h.payments.CreateIntent(appt.ID, appt.PaymentAmount)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to create payment intent", err.Error())
		return
	}
	c.JSON(http.StatusOK, intent)
}
