package models

// Service is immutable reference data owned by the store; the core only reads it.
type Service struct {
	ID          int     `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	DurationMin int     `bson:"duration_min" json:"durationMin"`
	Price       float64 `bson:"price" json:"price"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}
