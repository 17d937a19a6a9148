package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo := NewPostgresRepository(db)
	repo.now = func() time.Time { return fixedNow }
	repo.newID = func() string { return "u-1" }
	return repo, mock, db
}

var userColumns = []string{"id", "first_name", "last_name", "email", "phone", "password_hash", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*first_name,\s*last_name,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)$`
	mock.ExpectExec(q).
		WithArgs("u-1", "John", "Doe", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.User{FirstName: "John", LastName: "Doe"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" || got.FirstName != "John" || got.LastName != "Doe" || !got.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_full_name_key"})

	_, err := repo.Create(context.Background(), &models.User{FirstName: "John", LastName: "Doe"})
	if !errors.Is(err, common.ErrDuplicateIdentity) {
		t.Fatalf("want ErrDuplicateIdentity, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{FirstName: "John", LastName: "Doe"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByFullName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+first_name\s*=\s*\$1\s+AND\s+last_name\s*=\s*\$2$`
	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "John", "Doe", nil, "555-0100", nil, fixedNow, fixedNow)
	mock.ExpectQuery(q).WithArgs("John", "Doe").WillReturnRows(rows)

	got, err := repo.GetByFullName(context.Background(), "John", "Doe")
	if err != nil {
		t.Fatalf("GetByFullName error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "" || got.Phone != "555-0100" || got.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+email\s*=\s*\$1`).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByPhone_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+phone\s*=\s*\$1`).
		WithArgs("555").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByPhone(context.Background(), "555")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "John", "Doe", "john@x.com", "555-0100", "$2a$hash", fixedNow, fixedNow)
	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "john@x.com" || got.PasswordHash != "$2a$hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdateEmail(t *testing.T) {
	q := `(?s)^UPDATE\s+users\s+SET\s+email\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3$`

	tests := []struct {
		name    string
		setup   func(e *sqlmock.ExpectedExec)
		wantErr error
	}{
		{
			name:  "updated",
			setup: func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 1)) },
		},
		{
			name:    "no such record",
			setup:   func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) },
			wantErr: common.ErrorNotFound,
		},
		{
			name: "email taken",
			setup: func(e *sqlmock.ExpectedExec) {
				e.WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
			},
			wantErr: common.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			tt.setup(mock.ExpectExec(q).WithArgs("john@x.com", fixedNow, "u-1"))

			err := repo.UpdateEmail(context.Background(), "u-1", "john@x.com")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdatePhone_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+phone`).
		WithArgs("555-0100", fixedNow, "u-1").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key"})

	err := repo.UpdatePhone(context.Background(), "u-1", "555-0100")
	if !errors.Is(err, common.ErrDuplicatePhone) {
		t.Fatalf("want ErrDuplicatePhone, got %v", err)
	}
}

func TestUpdatePasswordHash_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$1`).
		WithArgs("$2a$hash", fixedNow, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), "u-1", "$2a$hash"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
}

func TestPostgresUniqueViolation_OtherErrors(t *testing.T) {
	if err := postgresUniqueViolation(errors.New("plain")); err != nil {
		t.Fatalf("plain error mapped to %v", err)
	}
	if err := postgresUniqueViolation(&pgconn.PgError{Code: "23503"}); err != nil {
		t.Fatalf("foreign key error mapped to %v", err)
	}
	if err := postgresUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "other"}); err != nil {
		t.Fatalf("unknown constraint mapped to %v", err)
	}
}
