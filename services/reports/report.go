package reports

import (
	"context"
	"fmt"

	appointmentRepo "clinicbot/database/repository/appointment"
	serviceRepo "clinicbot/database/repository/service"
	"clinicbot/models"
)

// Service builds financial reports over committed appointments: the revenue
// the day's schedule should produce versus what patients actually paid.
type Service struct {
	repo     appointmentRepo.AppointmentRepository
	services serviceRepo.ServiceRepository
	outDir   string
}

func NewService(repo appointmentRepo.AppointmentRepository, services serviceRepo.ServiceRepository, outDir string) *Service {
	return &Service{repo: repo, services: services, outDir: outDir}
}

// DailyReport aggregates one date.
func (s *Service) DailyReport(ctx context.Context, date string) (*models.FinancialReport, error) {
	appts, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments for report: %w", err)
	}
	report, err := s.build(ctx, appts, true)
	if err != nil {
		return nil, err
	}
	report.Title = "Informe del " + date
	return report, nil
}

// RangeReport aggregates an inclusive date range.
func (s *Service) RangeReport(ctx context.Context, from, to string) (*models.FinancialReport, error) {
	appts, err := s.repo.ListByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments for report: %w", err)
	}
	report, err := s.build(ctx, appts, false)
	if err != nil {
		return nil, err
	}
	report.Title = fmt.Sprintf("Informe del %s al %s", from, to)
	return report, nil
}

func (s *Service) build(ctx context.Context, appts []models.Appointment, singleDay bool) (*models.FinancialReport, error) {
	services, err := s.services.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load service catalogue: %w", err)
	}
	prices := make(map[int]float64, len(services))
	names := make(map[int]string, len(services))
	for _, svc := range services {
		prices[svc.ID] = svc.Price
		names[svc.ID] = svc.Name
	}

	report := &models.FinancialReport{ByMethod: make(map[string]float64)}
	for _, a := range appts {
		row := models.ReportRow{
			PatientName:   a.PatientName,
			ServiceName:   names[a.ServiceID],
			Time:          a.Time,
			Price:         prices[a.ServiceID],
			Status:        a.Status,
			PaymentStatus: a.PaymentStatus,
			PaymentMethod: a.PaymentMethod,
			PaymentAmount: a.PaymentAmount,
		}
		if !singleDay {
			row.Date = a.Date
		}
		report.Rows = append(report.Rows, row)

		// Cancelled appointments stay in the listing but never count toward
		// expected revenue.
		if a.Status == models.StatusConfirmed {
			report.TotalExpected += prices[a.ServiceID]
		}
		if a.PaymentStatus == models.PaymentPaid {
			report.TotalCollected += a.PaymentAmount
			method := a.PaymentMethod
			if method == "" {
				method = "sin especificar"
			}
			report.ByMethod[method] += a.PaymentAmount
		}
	}
	return report, nil
}
