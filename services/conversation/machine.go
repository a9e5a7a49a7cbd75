package conversation

import (
	"context"
	"sync"
	"time"

	serviceRepo "clinicbot/database/repository/service"
	"clinicbot/models"
	"clinicbot/services/availability"
	"clinicbot/services/booking"
	"clinicbot/services/intelligence"
	"clinicbot/services/reservation"
	"clinicbot/utils"

	"go.uber.org/zap"
)

// historyDepth is how many recent user turns are replayed to the classifier.
const historyDepth = 6

// AvailabilityReader is the read-only store view the engine needs to render
// slot grids.
type AvailabilityReader interface {
	ListBookedTimes(ctx context.Context, date string) ([]string, error)
}

// ReminderScheduler enqueues the day-before reminder for a committed
// appointment. Scheduling failures never fail the booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error
}

// Machine drives the appointment conversation. One inbound ChatEvent produces
// one RenderRequest; all per-user state lives in the session store. Turns for
// the same user are serialized, turns for different users run concurrently.
type Machine struct {
	sessions    SessionStore
	classifier  intelligence.Classifier
	coordinator booking.Coordinator
	manager     booking.Manager
	services    serviceRepo.ServiceRepository
	booked      AvailabilityReader
	holds       reservation.SlotHoldCache
	gen         *availability.Generator
	reminders   ReminderScheduler
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock serializes turns for one user. Refcounting lets the entry be
// evicted as soon as the last waiter is gone, so the map does not grow with
// every user ever seen.
type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewMachine(
	sessions SessionStore,
	classifier intelligence.Classifier,
	coordinator booking.Coordinator,
	manager booking.Manager,
	services serviceRepo.ServiceRepository,
	booked AvailabilityReader,
	holds reservation.SlotHoldCache,
	gen *availability.Generator,
	reminders ReminderScheduler,
) *Machine {
	return &Machine{
		sessions:    sessions,
		classifier:  classifier,
		coordinator: coordinator,
		manager:     manager,
		services:    services,
		booked:      booked,
		holds:       holds,
		gen:         gen,
		reminders:   reminders,
		now:         time.Now,
		locks:       make(map[string]*userLock),
	}
}

func (m *Machine) lockUser(userID string) *userLock {
	m.mu.Lock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &userLock{}
		m.locks[userID] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (m *Machine) unlockUser(userID string, lock *userLock) {
	lock.mu.Unlock()

	m.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(m.locks, userID)
	}
	m.mu.Unlock()
}

// Handle processes one inbound event and returns the prompt to render.
func (m *Machine) Handle(ctx context.Context, event models.ChatEvent) (*models.RenderRequest, error) {
	lock := m.lockUser(event.UserID)
	defer m.unlockUser(event.UserID, lock)

	session, err := m.sessions.Get(ctx, event.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = models.NewConversationSession(event.UserID)
	}
	if session.State == models.StateEnd {
		session.Reset()
	}

	if event.Text != "" {
		session.History = append(session.History, event.Text)
		if len(session.History) > historyDepth {
			session.History = session.History[len(session.History)-historyDepth:]
		}
	}

	var resp *models.RenderRequest
	if event.Text != "" && isExitKeyword(event.Text) && session.State != models.StateIdle {
		resp = m.abandon(ctx, session)
	} else {
		resp, err = m.dispatch(ctx, session, event)
		if err != nil {
			return nil, err
		}
	}

	if err := m.sessions.Save(ctx, session); err != nil {
		// The reply is still worth delivering; the next turn restarts at Idle.
		utils.GetLogger().Warn("Failed to save session",
			zap.String("userID", event.UserID), zap.Error(err))
	}
	return resp, nil
}

func (m *Machine) dispatch(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	switch s.State {
	case models.StateIdle:
		return m.handleIdle(ctx, s, event)
	case models.StateChoosingService:
		return m.handleChoosingService(ctx, s, event)
	case models.StateChoosingDate:
		return m.handleChoosingDate(ctx, s, event)
	case models.StateChoosingTime:
		return m.handleChoosingTime(ctx, s, event)
	case models.StateEnteringName:
		return m.handleEnteringName(ctx, s, event)
	case models.StateEnteringID:
		return m.handleEnteringID(ctx, s, event)
	case models.StateEnteringPhone:
		return m.handleEnteringPhone(ctx, s, event)
	case models.StateConfirming:
		return m.handleConfirming(ctx, s, event)
	case models.StateManaging:
		return m.handleManaging(ctx, s, event)
	case models.StateLinkingPayment:
		return m.handleLinkingPayment(ctx, s, event)
	default:
		s.Reset()
		return renderGreeting(), nil
	}
}

// abandon drops the in-flight flow, releasing any advisory hold the draft was
// carrying.
func (m *Machine) abandon(ctx context.Context, s *models.ConversationSession) *models.RenderRequest {
	m.releaseDraftHold(ctx, s)
	s.Reset()
	return plain("Listo, cancelé la operación. Escríbeme cuando quieras agendar de nuevo. 👋")
}

func (m *Machine) releaseDraftHold(ctx context.Context, s *models.ConversationSession) {
	if m.holds == nil || s.Draft.Date == "" || s.Draft.Time == "" {
		return
	}
	// A staged pick of a slot held by someone else must not drop their hold.
	holder, err := m.holds.Holder(ctx, s.Draft.Date, s.Draft.Time)
	if err != nil || holder != s.UserID {
		return
	}
	if err := m.holds.Release(ctx, s.Draft.Date, s.Draft.Time); err != nil {
		utils.GetLogger().Warn("Failed to release abandoned hold",
			zap.String("userID", s.UserID), zap.Error(err))
	}
}

func (m *Machine) handleIdle(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	if event.Selection != "" {
		sel := ParseSelection(event.Selection)
		if sel.Name == "menu" {
			switch sel.Arg {
			case "book":
				return m.startBooking(ctx, s, nil)
			case "manage":
				return m.startManage(s), nil
			case "location":
				return renderLocation(), nil
			}
		}
		// Stale buttons from an expired session land here.
		return renderGreeting(), nil
	}

	req := models.ClassifyRequest{History: s.History, Text: event.Text, Image: event.Image}
	result, err := m.classifier.Classify(ctx, req)
	if err != nil {
		utils.GetLogger().Warn("Classification failed",
			zap.String("userID", s.UserID), zap.Error(err))
		return renderGreeting(), nil
	}

	switch result.Intent {
	case models.IntentGreeting:
		return renderGreeting(), nil
	case models.IntentLocationInquiry:
		return renderLocation(), nil
	case models.IntentBookingRequest:
		return m.startBooking(ctx, s, result.SuggestedServiceIDs)
	case models.IntentCheckAppointment, models.IntentCancellation, models.IntentReschedule:
		return m.startManage(s), nil
	case models.IntentInvoiceAnalysis:
		return m.startPaymentLink(s, result, event), nil
	default:
		if result.Message != "" {
			return plain(result.Message), nil
		}
		return renderGreeting(), nil
	}
}

func (m *Machine) startBooking(ctx context.Context, s *models.ConversationSession, suggested []int) (*models.RenderRequest, error) {
	services, err := m.services.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return plain("Por ahora no tenemos servicios disponibles para agendar."), nil
	}
	s.State = models.StateChoosingService
	return renderServices(services, suggested), nil
}
