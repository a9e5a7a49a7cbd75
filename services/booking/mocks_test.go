package booking

import (
	"context"

	"clinicbot/models"
)

type fakeAppointmentRepo struct {
	createFn         func(ctx context.Context, appt *models.Appointment) (string, error)
	getFn            func(ctx context.Context, id string) (*models.Appointment, error)
	listByPatientFn  func(ctx context.Context, patientID string) ([]models.Appointment, error)
	cancelFn         func(ctx context.Context, id string) (bool, error)
	isSlotFreeFn     func(ctx context.Context, date, timeStr string) (bool, error)
	listBookedFn     func(ctx context.Context, date string) ([]string, error)
	updateScheduleFn func(ctx context.Context, id, date, timeStr string) (bool, error)
	updatePaymentFn  func(ctx context.Context, id, status, method, proofRef string, amount float64) (bool, error)
	listByDateFn     func(ctx context.Context, date string) ([]models.Appointment, error)
	listByRangeFn    func(ctx context.Context, from, to string) ([]models.Appointment, error)
}

func (f *fakeAppointmentRepo) CreateAppointment(ctx context.Context, appt *models.Appointment) (string, error) {
	return f.createFn(ctx, appt)
}

func (f *fakeAppointmentRepo) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return f.getFn(ctx, id)
}

func (f *fakeAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return f.listByPatientFn(ctx, patientID)
}

func (f *fakeAppointmentRepo) CancelAppointment(ctx context.Context, id string) (bool, error) {
	return f.cancelFn(ctx, id)
}

func (f *fakeAppointmentRepo) IsSlotFree(ctx context.Context, date, timeStr string) (bool, error) {
	return f.isSlotFreeFn(ctx, date, timeStr)
}

func (f *fakeAppointmentRepo) ListBookedTimes(ctx context.Context, date string) ([]string, error) {
	return f.listBookedFn(ctx, date)
}

func (f *fakeAppointmentRepo) UpdateSchedule(ctx context.Context, id, date, timeStr string) (bool, error) {
	return f.updateScheduleFn(ctx, id, date, timeStr)
}

func (f *fakeAppointmentRepo) UpdatePaymentStatus(ctx context.Context, id, status, method, proofRef string, amount float64) (bool, error) {
	return f.updatePaymentFn(ctx, id, status, method, proofRef, amount)
}

func (f *fakeAppointmentRepo) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	return f.listByDateFn(ctx, date)
}

func (f *fakeAppointmentRepo) ListByRange(ctx context.Context, from, to string) ([]models.Appointment, error) {
	return f.listByRangeFn(ctx, from, to)
}

type fakeServiceRepo struct {
	listFn func(ctx context.Context) ([]models.Service, error)
	getFn  func(ctx context.Context, id int) (*models.Service, error)
}

func (f *fakeServiceRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	return f.listFn(ctx)
}

func (f *fakeServiceRepo) GetService(ctx context.Context, id int) (*models.Service, error) {
	return f.getFn(ctx, id)
}

type fakeHoldCache struct {
	held     map[string]string
	released []string
}

func newFakeHoldCache() *fakeHoldCache {
	return &fakeHoldCache{held: make(map[string]string)}
}

func (f *fakeHoldCache) Hold(ctx context.Context, date, timeStr, userID string) (bool, error) {
	key := date + "_" + timeStr
	if holder, ok := f.held[key]; ok && holder != userID {
		return false, nil
	}
	f.held[key] = userID
	return true, nil
}

func (f *fakeHoldCache) Holder(ctx context.Context, date, timeStr string) (string, error) {
	return f.held[date+"_"+timeStr], nil
}

func (f *fakeHoldCache) Release(ctx context.Context, date, timeStr string) error {
	key := date + "_" + timeStr
	delete(f.held, key)
	f.released = append(f.released, key)
	return nil
}

func (f *fakeHoldCache) HeldTimes(ctx context.Context, date string, grid []string, userID string) ([]string, error) {
	var held []string
	for _, t := range grid {
		if holder, ok := f.held[date+"_"+t]; ok && holder != userID {
			held = append(held, t)
		}
	}
	return held, nil
}
