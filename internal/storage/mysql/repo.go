package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

const errDuplicateEntry = 1062

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func isDuplicate(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// Repo implements every repository port on one *sql.DB.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var (
	_ domain.ExperienceRepository = (*Repo)(nil)
	_ domain.BookingRepository    = (*Repo)(nil)
	_ domain.GameRepository       = (*Repo)(nil)
	_ domain.UserRepository       = (*Repo)(nil)
	_ domain.ImportLog            = (*Repo)(nil)
)

func (r *Repo) UpsertExperience(ctx context.Context, e domain.Experience) error {
	e.Normalize()
	features := e.Features
	if features == nil {
		features = []domain.Feature{}
	}
	dates := e.AvailableDates
	if dates == nil {
		dates = []domain.AvailableDate{}
	}
	fj, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	dj, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("encode available dates: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertExperienceSQL,
		e.ID,
		e.Title,
		e.Description,
		e.Location,
		e.ImageURL,
		e.PriceCents,
		e.Duration,
		e.Capacity,
		string(e.Difficulty),
		string(fj),
		e.HasGame,
		valStr(e.GameID),
		string(dj),
		valTime(e.CreatedAt),
	)
	return err
}

func (r *Repo) DeleteExperience(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteExperienceSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanExperience(s rowScanner) (domain.Experience, error) {
	var e domain.Experience
	var difficulty string
	var featuresJSON, datesJSON []byte
	var gameID sql.NullString
	var updated sql.NullTime
	if err := s.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL,
		&e.PriceCents, &e.Duration, &e.Capacity,
		&difficulty, &featuresJSON, &e.HasGame, &gameID, &datesJSON,
		&e.CreatedAt, &updated,
	); err != nil {
		return domain.Experience{}, err
	}
	e.Difficulty = domain.Difficulty(difficulty)
	e.GameID = nullStr(gameID)
	if updated.Valid {
		t := updated.Time
		e.UpdatedAt = &t
	}
	e.Features = []domain.Feature{}
	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &e.Features); err != nil {
			return domain.Experience{}, fmt.Errorf("decode features of %s: %w", e.ID, err)
		}
	}
	e.AvailableDates = []domain.AvailableDate{}
	if len(datesJSON) > 0 {
		if err := json.Unmarshal(datesJSON, &e.AvailableDates); err != nil {
			return domain.Experience{}, fmt.Errorf("decode available dates of %s: %w", e.ID, err)
		}
	}
	return e, nil
}

func (r *Repo) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	rows, err := r.db.QueryContext(ctx, listExperiencesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Experience, 0, 32)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) GetExperience(ctx context.Context, id string) (domain.Experience, error) {
	e, err := scanExperience(r.db.QueryRowContext(ctx, getExperienceSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Experience{}, domain.ErrNotFound
	}
	return e, err
}

func (r *Repo) LogMiss(ctx context.Context, id string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}
