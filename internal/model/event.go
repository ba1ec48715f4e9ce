package model

import "time"

// Event is the top-level catalog entity: a named happening on a date
// with an ordered list of sections. Events are created once and are
// immutable afterwards except for the per-row booking counters.
type Event struct {
	ID       uint64    `json:"id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Sections []Section `json:"sections,omitempty"`
}

// Section groups rows under a name that is unique within its event.
type Section struct {
	ID   uint64 `json:"-"`
	Name string `json:"name"`
	Rows []Row  `json:"rows,omitempty"`
}

// Row is the smallest bookable unit. TotalSeats is fixed at creation;
// BookedSeats and BookedIndices are the only mutable state in the whole
// catalog and change exclusively through the booking committer's
// conditional write.
//
// BookedIndices holds the explicitly booked seat numbers (1-based) and
// is only populated for rows sold in seat-number mode. When it is in
// use its cardinality equals BookedSeats.
type Row struct {
	ID            uint64 `json:"-"`
	Name          string `json:"name"`
	TotalSeats    int    `json:"totalSeats"`
	BookedSeats   int    `json:"bookedSeats"`
	BookedIndices []int  `json:"bookedIndices,omitempty"`
}

// AvailableSeats reports how many seats are still free in the row.
func (r *Row) AvailableSeats() int {
	return r.TotalSeats - r.BookedSeats
}

// IsBooked reports whether a specific seat number has already been
// granted in seat-number mode.
func (r *Row) IsBooked(seat int) bool {
	for _, n := range r.BookedIndices {
		if n == seat {
			return true
		}
	}
	return false
}

// FindSection returns the section with the given name, or nil.
func (e *Event) FindSection(name string) *Section {
	for i := range e.Sections {
		if e.Sections[i].Name == name {
			return &e.Sections[i]
		}
	}
	return nil
}

// FindRow returns the row with the given name, or nil.
func (s *Section) FindRow(name string) *Row {
	for i := range s.Rows {
		if s.Rows[i].Name == name {
			return &s.Rows[i]
		}
	}
	return nil
}

// EventSummary is the shape returned by the event listing endpoint:
// identifiers plus section names, without row counters.
type EventSummary struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	SectionNames []string  `json:"sections"`
}

// RowAvailability is the per-row view served by the availability
// endpoint. AvailableSeats is derived, never stored.
type RowAvailability struct {
	Name           string `json:"name"`
	TotalSeats     int    `json:"totalSeats"`
	BookedSeats    int    `json:"bookedSeats"`
	AvailableSeats int    `json:"availableSeats"`
	BookedIndices  []int  `json:"bookedIndices"`
}

// SectionAvailability groups row availability under a section name.
type SectionAvailability struct {
	Name string            `json:"name"`
	Rows []RowAvailability `json:"rows"`
}

// Availability builds the availability view of the whole event.
func (e *Event) Availability() []SectionAvailability {
	out := make([]SectionAvailability, 0, len(e.Sections))
	for _, sec := range e.Sections {
		rows := make([]RowAvailability, 0, len(sec.Rows))
		for _, row := range sec.Rows {
			indices := row.BookedIndices
			if indices == nil {
				indices = []int{}
			}
			rows = append(rows, RowAvailability{
				Name:           row.Name,
				TotalSeats:     row.TotalSeats,
				BookedSeats:    row.BookedSeats,
				AvailableSeats: row.AvailableSeats(),
				BookedIndices:  indices,
			})
		}
		out = append(out, SectionAvailability{Name: sec.Name, Rows: rows})
	}
	return out
}
