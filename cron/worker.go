package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"clinicbot/config"
	"clinicbot/models"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// reminderFireHour is the local hour, on the day before the appointment, at
// which the reminder goes out.
const reminderFireHour = 18

func reminderRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(notifier Notifier) {
	srv := asynq.NewServer(
		reminderRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(notifier))

	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifier Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		text := fmt.Sprintf(
			"👋 ¡Hola %s! Te recordamos tu cita de %s mañana %s a las %s.\n📍 %s",
			p.PatientName, p.ServiceName, p.Date, p.Time, config.AppConfig.ClinicAddress)

		if err := notifier.Push(ctx, p.UserID, models.RenderRequest{Text: text}); err != nil {
			log.Printf("[ReminderHandler] Failed to deliver reminder for %s: %v", p.AppointmentID, err)
			return err
		}
		return nil
	}
}

// AsynqReminderScheduler enqueues day-before reminders. It satisfies the
// conversation engine's ReminderScheduler.
type AsynqReminderScheduler struct {
	client *asynq.Client
	now    func() time.Time
}

func NewReminderScheduler() *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client: asynq.NewClient(reminderRedisOpts()),
		now:    time.Now,
	}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	fireAt, err := s.fireTime(payload.Date)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeReminderSend, data)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(fireAt), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// fireTime returns 18:00 on the day before the appointment. Bookings made
// after that moment (the appointment is always at least one day out) get the
// reminder shortly after confirmation instead.
func (s *AsynqReminderScheduler) fireTime(date string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.now().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed appointment date %q: %w", date, err)
	}
	fireAt := day.AddDate(0, 0, -1).Add(reminderFireHour * time.Hour)
	if fireAt.Before(s.now()) {
		fireAt = s.now().Add(time.Minute)
	}
	return fireAt, nil
}
