package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SessionID ID
	ChartID   ID
)

func (id SessionID) String() string { return ID(id).String() }
func (id ChartID) String() string   { return ID(id).String() }

// NewSessionID identifies one viewer of the embedded chart.
func NewSessionID() SessionID { return SessionID(NewID()) }

// NewChartID identifies one rendered chart instance. go-echarts uses it as the DOM id,
// so it must start with a letter.
func NewChartID() ChartID {
	return ChartID("chart_" + strings.ReplaceAll(NewID().String(), "-", ""))
}

// ParseSessionID parses a string into SessionID
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	return SessionID(s), nil
}
