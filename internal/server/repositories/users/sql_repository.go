package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/dbx"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/google/uuid"
)

type queries struct {
	create         string
	getByID        string
	getByFullName  string
	getByEmail     string
	getByPhone     string
	updateEmail    string
	updatePhone    string
	updatePassword string
}

// SQLRepository implements Repository over database/sql.
type SQLRepository struct {
	db     dbx.DBTX
	q      queries
	unique func(error) error
	now    func() time.Time
	newID  func() string
}

func newSQLRepository(db dbx.DBTX, q queries, unique func(error) error) *SQLRepository {
	return &SQLRepository{
		db:     db,
		q:      q,
		unique: unique,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (r *SQLRepository) dbError(err error) error {
	if dup := r.unique(err); dup != nil {
		return dup
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := r.now()
	u := &models.User{
		ID:        r.newID(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.ExecContext(ctx, r.q.create, u.ID, u.FirstName, u.LastName, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, r.dbError(err)
	}

	return u, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, r.q.getByID, id)
}

func (r *SQLRepository) GetByFullName(ctx context.Context, firstName, lastName string) (*models.User, error) {
	return r.getOne(ctx, r.q.getByFullName, firstName, lastName)
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, r.q.getByEmail, email)
}

func (r *SQLRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOne(ctx, r.q.getByPhone, phone)
}

func (r *SQLRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.updateOne(ctx, r.q.updateEmail, email, id)
}

func (r *SQLRepository) UpdatePhone(ctx context.Context, id, phone string) error {
	return r.updateOne(ctx, r.q.updatePhone, phone, id)
}

func (r *SQLRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.updateOne(ctx, r.q.updatePassword, hash, id)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var (
		u                   models.User
		email, phone, phash sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.FirstName, &u.LastName, &email, &phone, &phash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Email = email.String
	u.Phone = phone.String
	u.PasswordHash = phash.String

	return &u, nil
}

// updateOne sets a single column on the row with the given id. The value
// comes first in args, then updated_at, then the id.
func (r *SQLRepository) updateOne(ctx context.Context, query, value, id string) error {
	res, err := r.db.ExecContext(ctx, query, value, r.now(), id)
	if err != nil {
		return r.dbError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
