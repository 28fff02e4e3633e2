package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// CreateBooking locks the experience row, takes the spots from the requested
// date and inserts the booking. Either both writes land or neither does.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	e := domain.Experience{ID: b.ExperienceID}
	var datesJSON []byte
	if err := tx.QueryRowContext(ctx, lockExperienceSlotsSQL, b.ExperienceID).Scan(&e.Capacity, &datesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock experience %s: %w", b.ExperienceID, err)
	}
	if len(datesJSON) > 0 {
		if err := json.Unmarshal(datesJSON, &e.AvailableDates); err != nil {
			return fmt.Errorf("decode available dates of %s: %w", e.ID, err)
		}
	}
	e.Normalize()

	if err := e.Reserve(b.BookingDate, b.NumberOfPeople); err != nil {
		return err
	}
	updated, err := json.Marshal(e.AvailableDates)
	if err != nil {
		return fmt.Errorf("encode available dates: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateExperienceSlotsSQL, string(updated), e.ID); err != nil {
		return fmt.Errorf("update spots of %s: %w", e.ID, err)
	}
	if _, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.UserID,
		b.ExperienceID,
		domain.DateKey(b.BookingDate),
		b.NumberOfPeople,
		string(b.Status),
		b.TotalPriceCents,
		valStr(b.RewardID),
	); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return tx.Commit()
}

func scanBooking(s rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var status string
	var rewardID sql.NullString
	var expID, expTitle, expLoc, expImg sql.NullString
	if err := s.Scan(
		&b.ID, &b.UserID, &b.ExperienceID, &b.BookingDate, &b.NumberOfPeople,
		&status, &b.TotalPriceCents, &rewardID, &b.CreatedAt,
		&expID, &expTitle, &expLoc, &expImg,
	); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	b.RewardID = nullStr(rewardID)
	if expID.Valid {
		b.Experience = &domain.ExperienceSummary{
			ID:       expID.String,
			Title:    expTitle.String,
			Location: expLoc.String,
			ImageURL: expImg.String,
		}
	}
	return b, nil
}

func (r *Repo) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listUserBookingsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Booking, 0, 8)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) GetUserBooking(ctx context.Context, userID, id string) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getUserBookingSQL, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) CountUserBookings(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countUserBookingsSQL, userID).Scan(&n)
	return n, err
}
