package handlers

import (
	"net/http"

	serviceRepo "clinicbot/database/repository/service"
	"clinicbot/utils"

	"github.com/gin-gonic/gin"
)

// ServicesHandler exposes the service catalogue.
type ServicesHandler struct {
	services serviceRepo.ServiceRepository
}

func NewServicesHandler(services serviceRepo.ServiceRepository) *ServicesHandler {
	return &ServicesHandler{services: services}
}

func (h *ServicesHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.services.ListServices(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}
