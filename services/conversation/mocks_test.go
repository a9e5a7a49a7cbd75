package conversation

import (
	"context"
	"sync"

	"clinicbot/models"
)

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*models.ConversationSession
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*models.ConversationSession)}
}

func (m *memSessions) Get(ctx context.Context, userID string) (*models.ConversationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Save(ctx context.Context, session *models.ConversationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.sessions[session.UserID] = &cp
	return nil
}

func (m *memSessions) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

type fakeClassifier struct {
	classifyFn func(ctx context.Context, req models.ClassifyRequest) (*models.ClassifyResult, error)
}

func (f *fakeClassifier) Classify(ctx context.Context, req models.ClassifyRequest) (*models.ClassifyResult, error) {
	return f.classifyFn(ctx, req)
}

func intentClassifier(intent models.Intent) *fakeClassifier {
	return &fakeClassifier{
		classifyFn: func(ctx context.Context, req models.ClassifyRequest) (*models.ClassifyResult, error) {
			return &models.ClassifyResult{Intent: intent}, nil
		},
	}
}

type fakeCoordinator struct {
	commitFn     func(ctx context.Context, userID string, draft models.BookingDraft) (*models.Appointment, error)
	rescheduleFn func(ctx context.Context, userID, appointmentID, date, timeStr string) (*models.Appointment, error)
}

func (f *fakeCoordinator) Commit(ctx context.Context, userID string, draft models.BookingDraft) (*models.Appointment, error) {
	return f.commitFn(ctx, userID, draft)
}

func (f *fakeCoordinator) Reschedule(ctx context.Context, userID, appointmentID, date, timeStr string) (*models.Appointment, error) {
	return f.rescheduleFn(ctx, userID, appointmentID, date, timeStr)
}

type fakeManager struct {
	listFn   func(ctx context.Context, patientID string) ([]models.ManagedAppointment, error)
	getFn    func(ctx context.Context, appointmentID string) (*models.Appointment, error)
	cancelFn func(ctx context.Context, appointmentID string) error
	linkFn   func(ctx context.Context, appointmentID, method, proofRef string, amount float64) error
}

func (f *fakeManager) ListActive(ctx context.Context, patientID string) ([]models.ManagedAppointment, error) {
	return f.listFn(ctx, patientID)
}

func (f *fakeManager) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return f.getFn(ctx, appointmentID)
}

func (f *fakeManager) Cancel(ctx context.Context, appointmentID string) error {
	return f.cancelFn(ctx, appointmentID)
}

func (f *fakeManager) LinkPayment(ctx context.Context, appointmentID, method, proofRef string, amount float64) error {
	return f.linkFn(ctx, appointmentID, method, proofRef, amount)
}

type fakeServices struct {
	services []models.Service
}

func (f *fakeServices) ListServices(ctx context.Context) ([]models.Service, error) {
	return f.services, nil
}

func (f *fakeServices) GetService(ctx context.Context, id int) (*models.Service, error) {
	for _, s := range f.services {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeBooked struct {
	times map[string][]string
}

func (f *fakeBooked) ListBookedTimes(ctx context.Context, date string) ([]string, error) {
	return f.times[date], nil
}

type fakeHolds struct {
	mu       sync.Mutex
	held     map[string]string
	released []string
}

func newFakeHolds() *fakeHolds {
	return &fakeHolds{held: make(map[string]string)}
}

func (f *fakeHolds) Hold(ctx context.Context, date, timeStr, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := date + "_" + timeStr
	if holder, ok := f.held[key]; ok && holder != userID {
		return false, nil
	}
	f.held[key] = userID
	return true, nil
}

func (f *fakeHolds) Holder(ctx context.Context, date, timeStr string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held[date+"_"+timeStr], nil
}

func (f *fakeHolds) Release(ctx context.Context, date, timeStr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := date + "_" + timeStr
	delete(f.held, key)
	f.released = append(f.released, key)
	return nil
}

func (f *fakeHolds) HeldTimes(ctx context.Context, date string, grid []string, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var held []string
	for _, t := range grid {
		if holder, ok := f.held[date+"_"+t]; ok && holder != userID {
			held = append(held, t)
		}
	}
	return held, nil
}

type fakeReminders struct {
	mu       sync.Mutex
	payloads []models.ReminderPayload
}

func (f *fakeReminders) ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}
