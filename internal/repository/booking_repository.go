package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// This file holds the only two statements in the codebase that mutate
// row counters. Both are compare-and-swap writes: the WHERE clause
// carries the snapshot the validator saw, and RowsAffected tells the
// committer whether the guard still matched. There is no partial
// success; a write affects exactly one row or none.

// BookQuantity increments booked_seats by qty provided the row's
// counter still equals snapshotBooked. Returns the number of rows
// affected (0 when a racing commit changed the counter first).
func (r *InventoryRepo) BookQuantity(ctx context.Context, eventID uint64, section, row string, snapshotBooked, qty int) (int64, error) {
	const q = `UPDATE seat_rows r
	           JOIN sections s ON s.id = r.section_id
	           SET r.booked_seats = r.booked_seats + ?
	           WHERE s.event_id = ? AND s.name = ? AND r.name = ?
	             AND r.booked_seats = ?`
	res, err := r.db.ExecContext(ctx, q, qty, eventID, section, row, snapshotBooked)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BookSeats records the requested seat numbers and bumps booked_seats
// by their count inside one transaction. The counter update is guarded
// by booked_seats == snapshotBooked AND none of the seats existing in
// row_seats; the primary key on (row_id, seat_no) backs the membership
// guard at the storage level as well, so a duplicate insert raced in
// by another transaction also surfaces as a conflict (0 affected), not
// as corruption.
func (r *InventoryRepo) BookSeats(ctx context.Context, eventID uint64, section, row string, snapshotBooked int, seats []int) (int64, error) {
	if len(seats) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var rowID uint64
	const idq = `SELECT r.id FROM seat_rows r
	             JOIN sections s ON s.id = r.section_id
	             WHERE s.event_id = ? AND s.name = ? AND r.name = ?`
	if err := tx.QueryRowContext(ctx, idq, eventID, section, row).Scan(&rowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seats)), ",")
	guardArgs := make([]any, 0, len(seats)+4)
	guardArgs = append(guardArgs, len(seats), rowID, snapshotBooked, rowID)
	for _, n := range seats {
		guardArgs = append(guardArgs, n)
	}
	guard := `UPDATE seat_rows
	          SET booked_seats = booked_seats + ?
	          WHERE id = ? AND booked_seats = ?
	            AND NOT EXISTS (
	              SELECT 1 FROM row_seats
	              WHERE row_id = ? AND seat_no IN (` + placeholders + `))`
	res, err := tx.ExecContext(ctx, guard, guardArgs...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, nil
	}

	insert := `INSERT INTO row_seats (row_id, seat_no) VALUES `
	insertArgs := make([]any, 0, len(seats)*2)
	for i, n := range seats {
		if i > 0 {
			insert += ","
		}
		insert += "(?, ?)"
		insertArgs = append(insertArgs, rowID, n)
	}
	if _, err := tx.ExecContext(ctx, insert, insertArgs...); err != nil {
		if isDuplicateKey(err) {
			return 0, nil
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return affected, nil
}

// isDuplicateKey reports whether err is a MySQL 1062 duplicate entry.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
