package model

import (
	"fmt"
	"strings"
	"time"
)

// CreateEventInput is the payload accepted when submitting a new event
// to the catalog. Rows are created with zero booked seats regardless of
// what the client sends.
type CreateEventInput struct {
	Name     string               `json:"name"`
	Date     string               `json:"date"`
	Sections []CreateSectionInput `json:"sections"`
}

// CreateSectionInput describes one section of a new event.
type CreateSectionInput struct {
	Name string           `json:"name"`
	Rows []CreateRowInput `json:"rows"`
}

// CreateRowInput describes one row of a new section.
type CreateRowInput struct {
	Name       string `json:"name"`
	TotalSeats int    `json:"totalSeats"`
}

// acceptable layouts for the event date, most specific first
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// ParseDate parses the submitted date string. An empty string is
// rejected by Validate before this is called.
func (in *CreateEventInput) ParseDate() (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, in.Date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", in.Date)
}

// Validate checks the structural rules for a new event: a name, a
// parseable date, at least one section, unique section names, at least
// one row per section, unique row names within each section, and a
// positive seat count on every row. The first violation is returned as
// a human-readable message.
func (in *CreateEventInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("event name is required")
	}
	if strings.TrimSpace(in.Date) == "" {
		return fmt.Errorf("valid event date is required")
	}
	if _, err := in.ParseDate(); err != nil {
		return fmt.Errorf("valid event date is required")
	}
	if len(in.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}
	sectionNames := make(map[string]struct{}, len(in.Sections))
	for _, sec := range in.Sections {
		if strings.TrimSpace(sec.Name) == "" {
			return fmt.Errorf("section name is required")
		}
		if _, dup := sectionNames[sec.Name]; dup {
			return fmt.Errorf("duplicate section name: %s", sec.Name)
		}
		sectionNames[sec.Name] = struct{}{}

		if len(sec.Rows) == 0 {
			return fmt.Errorf("section %s must have rows", sec.Name)
		}
		rowNames := make(map[string]struct{}, len(sec.Rows))
		for _, row := range sec.Rows {
			if strings.TrimSpace(row.Name) == "" {
				return fmt.Errorf("row name is required in section %s", sec.Name)
			}
			if _, dup := rowNames[row.Name]; dup {
				return fmt.Errorf("duplicate row name %s in section %s", row.Name, sec.Name)
			}
			rowNames[row.Name] = struct{}{}

			if row.TotalSeats <= 0 {
				return fmt.Errorf("row %s in section %s must have positive totalSeats", row.Name, sec.Name)
			}
		}
	}
	return nil
}
