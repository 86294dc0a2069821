package dao

import "time"

// ServedOrder is one row of served_orders.
type ServedOrder struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Items      []string  `json:"items"`
	Result     string    `json:"result"`
	PreparedAt time.Time `json:"prepared_at"`
}
