// Package dto holds the line protocol spoken with counter clients.
package dto

import (
	"fmt"
	"strings"
)

// Reply is the single line sent back on a connection.
type Reply struct {
	OK         bool
	CustomerID int64
	Result     string
	Err        string
}

const busyLine = "BUSY\n"

// Busy is written when the admission gate turns a connection away.
func Busy() string { return busyLine }

func (r Reply) String() string {
	if !r.OK {
		return "ERR " + oneLine(r.Err) + "\n"
	}
	return fmt.Sprintf("OK %d %s\n", r.CustomerID, oneLine(r.Result))
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
