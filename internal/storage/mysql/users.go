package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, strings.ToLower(u.Email), u.PasswordHash)
	if isDuplicate(err) {
		return domain.ErrEmailExists
	}
	return err
}

func (r *Repo) CreateProfile(ctx context.Context, p domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx, insertProfileSQL, p.ID, p.Email, valStr(p.FullName), valStr(p.AvatarURL))
	return err
}

func (r *Repo) getUser(ctx context.Context, q string, arg string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, getUserByEmailSQL, strings.ToLower(email))
}

func (r *Repo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getUser(ctx, getUserByIDSQL, id)
}

func (r *Repo) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, isAdminSQL, userID).Scan(&ok)
	return ok, err
}
