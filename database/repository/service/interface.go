package serviceRepo

import (
	"context"

	"clinicbot/models"
)

// ServiceRepository reads the clinic's immutable service catalogue.
type ServiceRepository interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id int) (*models.Service, error)
}
