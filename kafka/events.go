package kafka

import "time"

// CarEvent represents a listing lifecycle event
type CarEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	CarID     uint      `json:"car_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Price     int       `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeCarListed  = "car.listed"
	EventTypeCarSold    = "car.sold"
	EventTypeCarDeleted = "car.deleted"
)

// Kafka topics
const (
	TopicCarEvents = "car-events"
)
