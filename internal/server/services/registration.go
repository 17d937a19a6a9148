// Package services contains server-side business logic. RegistrationService
// implements the four registration steps as functions of the current
// session state and the step input; callers persist the returned state.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/dbx"
	"github.com/dmitrijs2005/gophreg/internal/server/auth"
	"github.com/dmitrijs2005/gophreg/internal/server/config"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/dmitrijs2005/gophreg/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreg/internal/server/repositories/users"
)

// RegistrationService runs the name → email → phone → password flow.
//
// Every step that needs an identity checks it before anything else, and
// data is staged into the returned session only after the record write
// succeeded. On error the input session is returned unchanged, except that
// SetPassword keeps a persisted hash staged so a retry can skip rehashing.
type RegistrationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      *auth.TokenIssuer
}

// NewRegistrationService constructs a RegistrationService from server config.
func NewRegistrationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*RegistrationService, error) {
	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &RegistrationService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration),
	}, nil
}

// SetName creates a record holding only the name and replaces whatever the
// session held before with the new identity.
func (s *RegistrationService) SetName(ctx context.Context, sess models.RegistrationSession, firstName, lastName string) (models.RegistrationSession, *models.User, error) {
	in := nameInput{FirstName: strings.TrimSpace(firstName), LastName: strings.TrimSpace(lastName)}
	if err := validateInput(in); err != nil {
		return sess, nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByFullName(ctx, in.FirstName, in.LastName)
	if err == nil {
		return sess, nil, common.ErrDuplicateIdentity
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return sess, nil, fmt.Errorf("lookup full name: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{FirstName: in.FirstName, LastName: in.LastName})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return sess, nil, err
		}
		return sess, nil, fmt.Errorf("create user: %w", err)
	}

	next := sess.Restart()
	next.UserID = u.ID
	next.FirstName = u.FirstName
	next.LastName = u.LastName

	return next, u, nil
}

// SetEmail stores the email on the session's record.
func (s *RegistrationService) SetEmail(ctx context.Context, sess models.RegistrationSession, email string) (models.RegistrationSession, error) {
	if !sess.HasIdentity() {
		return sess, common.ErrMissingIdentity
	}

	in := emailInput{Email: strings.TrimSpace(email)}
	if err := validateInput(in); err != nil {
		return sess, err
	}

	err := s.setContact(ctx, sess.UserID, in.Email, contactOps{
		lookup:    users.Repository.GetByEmail,
		update:    users.Repository.UpdateEmail,
		duplicate: common.ErrDuplicateEmail,
	})
	if err != nil {
		return sess, err
	}

	next := sess
	next.Email = in.Email
	return next, nil
}

// SetPhone stores the phone number on the session's record.
func (s *RegistrationService) SetPhone(ctx context.Context, sess models.RegistrationSession, phone string) (models.RegistrationSession, error) {
	if !sess.HasIdentity() {
		return sess, common.ErrMissingIdentity
	}

	in := phoneInput{Phone: strings.TrimSpace(phone)}
	if err := validateInput(in); err != nil {
		return sess, err
	}

	err := s.setContact(ctx, sess.UserID, in.Phone, contactOps{
		lookup:    users.Repository.GetByPhone,
		update:    users.Repository.UpdatePhone,
		duplicate: common.ErrDuplicatePhone,
	})
	if err != nil {
		return sess, err
	}

	next := sess
	next.Phone = in.Phone
	return next, nil
}

type contactOps struct {
	lookup    func(users.Repository, context.Context, string) (*models.User, error)
	update    func(users.Repository, context.Context, string, string) error
	duplicate error
}

// setContact writes a unique contact field. A value already held by the
// same record is accepted as a re-submission.
func (s *RegistrationService) setContact(ctx context.Context, userID, value string, ops contactOps) error {
	repo := s.repomanager.Users(s.db)

	owner, err := ops.lookup(repo, ctx, value)
	switch {
	case err == nil && owner.ID != userID:
		return ops.duplicate
	case err == nil:
		return nil
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("lookup: %w", err)
	}

	if err := ops.update(repo, ctx, userID, value); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return common.ErrMissingIdentity
		case errors.Is(err, ops.duplicate):
			return err
		default:
			return fmt.Errorf("update: %w", err)
		}
	}

	return nil
}

// SetPassword hashes the password, stores the hash and issues a token for
// the record. The hash write and the snapshot read share one transaction.
//
// When the session already carries a hash of the same password that the
// record also holds, an earlier attempt persisted it but the client never
// got its token; only the token is issued again.
func (s *RegistrationService) SetPassword(ctx context.Context, sess models.RegistrationSession, password string) (models.RegistrationSession, string, error) {
	if !sess.HasIdentity() {
		return sess, "", common.ErrMissingIdentity
	}

	if err := validatePassword(password); err != nil {
		return sess, "", err
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	if sess.PasswordHash != "" && s.hasher.Compare(sess.PasswordHash, pw) == nil {
		u, err := s.repomanager.Users(s.db).GetByID(ctx, sess.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return sess, "", common.ErrMissingIdentity
			}
			return sess, "", fmt.Errorf("get user: %w", err)
		}
		if u.PasswordHash == sess.PasswordHash {
			token, err := s.tokens.Issue(u.ID)
			if err != nil {
				return sess, "", fmt.Errorf("issue token: %w", err)
			}
			return sess, token, nil
		}
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return sess, "", fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if err := repo.UpdatePasswordHash(ctx, sess.UserID, hash); err != nil {
			return err
		}
		var err error
		user, err = repo.GetByID(ctx, sess.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return sess, "", common.ErrMissingIdentity
		}
		return sess, "", fmt.Errorf("store password: %w", err)
	}

	next := sess
	next.PasswordHash = user.PasswordHash

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return next, "", fmt.Errorf("issue token: %w", err)
	}

	return next, token, nil
}
