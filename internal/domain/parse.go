package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxItems bounds a single order.
const MaxItems = 10

var (
	ErrUnknownItem  = errors.New("unknown item")
	ErrEmptyOrder   = errors.New("empty order")
	ErrTooManyItems = errors.New("too many items")
)

// ParseItem matches a token against the menu. Matching is case-sensitive.
func ParseItem(token string) (Item, error) {
	for i, name := range itemNames {
		if name == token {
			return Item(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItem, token)
}

// ParseOrder turns one request line into the list of items, in order.
func ParseOrder(line string, max int) ([]Item, error) {
	if max <= 0 {
		max = MaxItems
	}
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, ErrEmptyOrder
	}
	if len(tokens) > max {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(tokens), max)
	}
	items := make([]Item, 0, len(tokens))
	for _, t := range tokens {
		it, err := ParseItem(t)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
