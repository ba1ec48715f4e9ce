package repository

import (
	"context"
	"database/sql"
	"errors"

	"ticket-booking/internal/model"
)

// InventoryRepo provides access to the event catalog and implements
// the booking engine's store contract. Row counters are mutated only
// through the conditional writes in booking_repository.go.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo constructs an InventoryRepo with the given DB handle.
func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// DB exposes the underlying handle for transaction management.
func (r *InventoryRepo) DB() *sql.DB {
	return r.db
}

// EnsureSchema creates the catalog tables when they do not exist yet.
// booked_seats defaults to zero; row_seats keys on (row_id, seat_no) so
// the database itself refuses a duplicate seat grant.
func (r *InventoryRepo) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			date DATETIME NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			event_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(255) NOT NULL,
			position INT UNSIGNED NOT NULL,
			UNIQUE KEY uq_sections_event_name (event_id, name),
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS seat_rows (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			section_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(255) NOT NULL,
			position INT UNSIGNED NOT NULL,
			total_seats INT UNSIGNED NOT NULL,
			booked_seats INT UNSIGNED NOT NULL DEFAULT 0,
			UNIQUE KEY uq_rows_section_name (section_id, name),
			FOREIGN KEY (section_id) REFERENCES sections(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS row_seats (
			row_id BIGINT UNSIGNED NOT NULL,
			seat_no INT UNSIGNED NOT NULL,
			PRIMARY KEY (row_id, seat_no),
			FOREIGN KEY (row_id) REFERENCES seat_rows(id) ON DELETE CASCADE
		)`,
	}
	for _, q := range stmts {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// CreateEvent inserts an event with its sections and rows in a single
// transaction. Section and row order follows the submitted payload;
// all rows start with zero booked seats. The returned event carries
// the generated identifier.
func (r *InventoryRepo) CreateEvent(ctx context.Context, in *model.CreateEventInput) (*model.Event, error) {
	date, err := in.ParseDate()
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO events (name, date) VALUES (?, ?)`, in.Name, date)
	if err != nil {
		return nil, err
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	ev := &model.Event{ID: uint64(eventID), Name: in.Name, Date: date}
	for si, sec := range in.Sections {
		sres, err := tx.ExecContext(ctx,
			`INSERT INTO sections (event_id, name, position) VALUES (?, ?, ?)`,
			eventID, sec.Name, si)
		if err != nil {
			return nil, err
		}
		sectionID, err := sres.LastInsertId()
		if err != nil {
			return nil, err
		}
		outSec := model.Section{ID: uint64(sectionID), Name: sec.Name}
		for ri, row := range sec.Rows {
			rres, err := tx.ExecContext(ctx,
				`INSERT INTO seat_rows (section_id, name, position, total_seats) VALUES (?, ?, ?, ?)`,
				sectionID, row.Name, ri, row.TotalSeats)
			if err != nil {
				return nil, err
			}
			rowID, err := rres.LastInsertId()
			if err != nil {
				return nil, err
			}
			outSec.Rows = append(outSec.Rows, model.Row{
				ID:         uint64(rowID),
				Name:       row.Name,
				TotalSeats: row.TotalSeats,
			})
		}
		ev.Sections = append(ev.Sections, outSec)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return ev, nil
}

// ListEvents returns all events with their section names, newest first.
func (r *InventoryRepo) ListEvents(ctx context.Context) ([]model.EventSummary, error) {
	const q = `SELECT id, name, date FROM events ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EventSummary
	index := make(map[uint64]int)
	for rows.Next() {
		var s model.EventSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Date); err != nil {
			return nil, err
		}
		s.SectionNames = []string{}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []model.EventSummary{}, nil
	}

	const sq = `SELECT event_id, name FROM sections ORDER BY event_id, position`
	srows, err := r.db.QueryContext(ctx, sq)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var eventID uint64
		var name string
		if err := srows.Scan(&eventID, &name); err != nil {
			return nil, err
		}
		if i, ok := index[eventID]; ok {
			out[i].SectionNames = append(out[i].SectionNames, name)
		}
	}
	return out, srows.Err()
}

// ReadEvent loads a full event snapshot: sections in order, rows with
// their current counters and the booked seat indices. The read is not
// atomic with respect to concurrent commits; the committer's guard is
// what protects against acting on a stale snapshot.
func (r *InventoryRepo) ReadEvent(ctx context.Context, eventID uint64) (*model.Event, error) {
	var ev model.Event
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, date FROM events WHERE id = ?`, eventID).
		Scan(&ev.ID, &ev.Name, &ev.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	const sq = `SELECT id, name FROM sections WHERE event_id = ? ORDER BY position`
	srows, err := r.db.QueryContext(ctx, sq, eventID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	sectionIndex := make(map[uint64]int)
	for srows.Next() {
		var sec model.Section
		if err := srows.Scan(&sec.ID, &sec.Name); err != nil {
			return nil, err
		}
		sectionIndex[sec.ID] = len(ev.Sections)
		ev.Sections = append(ev.Sections, sec)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	const rq = `SELECT r.id, r.section_id, r.name, r.total_seats, r.booked_seats
	            FROM seat_rows r
	            JOIN sections s ON s.id = r.section_id
	            WHERE s.event_id = ?
	            ORDER BY s.position, r.position`
	rrows, err := r.db.QueryContext(ctx, rq, eventID)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	rowIndex := make(map[uint64][2]int) // row id -> (section idx, row idx)
	for rrows.Next() {
		var row model.Row
		var sectionID uint64
		if err := rrows.Scan(&row.ID, &sectionID, &row.Name, &row.TotalSeats, &row.BookedSeats); err != nil {
			return nil, err
		}
		si, ok := sectionIndex[sectionID]
		if !ok {
			continue
		}
		rowIndex[row.ID] = [2]int{si, len(ev.Sections[si].Rows)}
		ev.Sections[si].Rows = append(ev.Sections[si].Rows, row)
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}

	const iq = `SELECT rs.row_id, rs.seat_no
	            FROM row_seats rs
	            JOIN seat_rows r ON r.id = rs.row_id
	            JOIN sections s ON s.id = r.section_id
	            WHERE s.event_id = ?
	            ORDER BY rs.row_id, rs.seat_no`
	irows, err := r.db.QueryContext(ctx, iq, eventID)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var rowID uint64
		var seatNo int
		if err := irows.Scan(&rowID, &seatNo); err != nil {
			return nil, err
		}
		if pos, ok := rowIndex[rowID]; ok {
			row := &ev.Sections[pos[0]].Rows[pos[1]]
			row.BookedIndices = append(row.BookedIndices, seatNo)
		}
	}
	return &ev, irows.Err()
}
