package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicbot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlot is returned when the unique (date,time,confirmed) index
// rejects an insert: another confirmed appointment won the slot.
var ErrDuplicateSlot = errors.New("slot already booked")

const queryTimeout = 5 * time.Second

// MongoAppointmentRepo implements AppointmentRepository on MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo builds the repository and ensures its indexes.
func NewMongoAppointmentRepo(db *mongo.Database) *MongoAppointmentRepo {
	repo := &MongoAppointmentRepo{coll: db.Collection("appointments")}
	repo.ensureIndexes()
	return repo
}

func (r *MongoAppointmentRepo) CreateAppointment(ctx context.Context, appt *models.Appointment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	appt.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateSlot
		}
		return "", fmt.Errorf("failed to insert appointment: %w", err)
	}
	return appt.ID, nil
}

func (r *MongoAppointmentRepo) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"patient_id": patientID, "status": models.StatusConfirmed}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for patient %s: %w", patientID, err)
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) CancelAppointment(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": models.StatusCancelled}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel appointment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoAppointmentRepo) IsSlotFree(ctx context.Context, date, timeStr string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"date":   date,
		"time":   timeStr,
		"status": models.StatusConfirmed,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check slot %s %s: %w", date, timeStr, err)
	}
	return count == 0, nil
}

func (r *MongoAppointmentRepo) ListBookedTimes(ctx context.Context, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "time", bson.M{
		"date":   date,
		"status": models.StatusConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list booked times for %s: %w", date, err)
	}

	times := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			times = append(times, s)
		}
	}
	return times, nil
}

func (r *MongoAppointmentRepo) UpdateSchedule(ctx context.Context, id, date, timeStr string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"date": date, "time": timeStr}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, ErrDuplicateSlot
		}
		return false, fmt.Errorf("failed to update schedule for %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoAppointmentRepo) UpdatePaymentStatus(ctx context.Context, id, status, method, proofRef string, amount float64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"payment_status": status,
			"payment_method": method,
			"payment_proof":  proofRef,
			"payment_amount": amount,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update payment for %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoAppointmentRepo) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for %s: %w", date, err)
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) ListByRange(ctx context.Context, from, to string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments in range: %w", err)
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}
