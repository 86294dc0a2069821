package domain

import "time"

// OrderReadyMessage is published to the notifications exchange once a
// customer's order has been fully prepared.
type OrderReadyMessage struct {
	CustomerID int64     `json:"customer_id"`
	Items      []string  `json:"items"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}
