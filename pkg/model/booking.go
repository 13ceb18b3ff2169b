package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// CalendarDate reduces an ISO-8601 timestamp or a bare YYYY-MM-DD to the calendar date
// as written, without converting time zones.
func CalendarDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// BookingRequest is a candidate reservation as extracted from the conversation.
// Date and Time keep the platform's raw ISO-8601 strings until validation parses them.
type BookingRequest struct {
	Location  string `json:"location" validate:"required"`
	PartySize int    `json:"party_size" validate:"min=1,max=200"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
}

// BookingRecord is a confirmed reservation. Records are append-only.
type BookingRecord struct {
	Location   string `json:"location" bson:"location" validate:"required"`
	PartySize  int    `json:"party_size" bson:"party_size" validate:"min=1,max=200"`
	Date       string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Time       string `json:"time" bson:"time" validate:"required,datetime=15:04"`
	CustomerID string `json:"customer_id" bson:"customer_id"`
}

func (b BookingRecord) Slot() Slot {
	return Slot{Location: b.Location, Date: b.Date, Time: b.Time}
}

// Slot is the unit of conflict comparison: a location, a calendar date and an hour.
type Slot struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s@%s %s", s.Location, s.Date, s.Time)
}
