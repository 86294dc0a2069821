package domain

import "time"

// Item is one menu entry the counter can prepare.
type Item int

const (
	BigMac Item = iota
	Cheese
	Chicken
	Bulgogi

	// NumItems is the size of the menu.
	NumItems = iota
)

// Items lists the whole menu in canonical order.
var Items = []Item{BigMac, Cheese, Chicken, Bulgogi}

var itemNames = [NumItems]string{
	BigMac:  "bigmac",
	Cheese:  "cheese",
	Chicken: "chicken",
	Bulgogi: "bulgogi",
}

func (i Item) String() string {
	if i < 0 || int(i) >= len(itemNames) {
		return "unknown"
	}
	return itemNames[i]
}

// Valid reports whether i is on the menu.
func (i Item) Valid() bool { return i >= 0 && int(i) < len(itemNames) }

// Receipt is what a customer gets back once the whole order is prepared.
type Receipt struct {
	CustomerID int64     `json:"customer_id"`
	Items      []Item    `json:"-"`
	Result     string    `json:"result"`
	PreparedAt time.Time `json:"prepared_at"`
}

// ItemNames returns the ordered item names of the receipt.
func (r Receipt) ItemNames() []string {
	out := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, it.String())
	}
	return out
}
