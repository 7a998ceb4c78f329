package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/model"
	"github.com/erazemk/gotchan/internal/store"
)

// SignUpCommand registers a new user.
type SignUpCommand struct {
	Email    string
	Nickname string
	Password string
}

// UpdateUserCommand changes a user's profile. Nil fields keep their value;
// an empty Address clears it.
type UpdateUserCommand struct {
	UserID   uuid.UUID
	Nickname *string
	Address  *string
}

var errBadCredentials = apperr.New(apperr.CodeUnauthorized, "invalid email or password")

// SignUp creates a user with a hashed password.
func (s *Service) SignUp(ctx context.Context, cmd SignUpCommand) (user *model.User, err error) {
	ctx, span := startSpan(ctx, "SignUp")
	defer func() { endSpan(span, err) }()

	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Nickname = strings.TrimSpace(cmd.Nickname)
	if cmd.Email == "" || cmd.Nickname == "" {
		return nil, apperr.InvalidInput("email and nickname are required", nil)
	}
	if err := model.ValidatePassword(cmd.Password); err != nil {
		return nil, apperr.InvalidInput(err.Error(), map[string]string{"password": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "hashing password", err)
	}

	err = s.tx(ctx, func(tx *sql.Tx) error {
		existing, err := store.GetUserByEmail(ctx, tx, cmd.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Duplicate("user", "email", cmd.Email)
		}

		existing, err = store.GetUserByNickname(ctx, tx, cmd.Nickname)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Duplicate("user", "nickname", cmd.Nickname)
		}

		user, err = store.CreateUser(ctx, tx, model.NewUser(cmd.Nickname, cmd.Email, string(hash)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email and password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user *model.User, err error) {
	ctx, span := startSpan(ctx, "Authenticate")
	defer func() { endSpan(span, err) }()

	user, err = store.GetUserByEmail(ctx, s.DB, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return user, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return requireUser(ctx, s.DB, id)
}

// UpdateUser changes a user's nickname and address.
func (s *Service) UpdateUser(ctx context.Context, cmd UpdateUserCommand) (user *model.User, err error) {
	ctx, span := startSpan(ctx, "UpdateUser")
	defer func() { endSpan(span, err) }()

	err = s.tx(ctx, func(tx *sql.Tx) error {
		current, err := requireUser(ctx, tx, cmd.UserID)
		if err != nil {
			return err
		}

		nickname := current.Nickname
		if cmd.Nickname != nil {
			nickname = strings.TrimSpace(*cmd.Nickname)
			if nickname == "" {
				return apperr.InvalidInput("nickname must not be empty", map[string]string{"nickname": "required"})
			}
		}
		if nickname != current.Nickname {
			taken, err := store.GetUserByNickname(ctx, tx, nickname)
			if err != nil {
				return err
			}
			if taken != nil {
				return apperr.Duplicate("user", "nickname", nickname)
			}
		}

		address := current.Address
		if cmd.Address != nil {
			address = cmd.Address
			if *cmd.Address == "" {
				address = nil
			}
		}

		if err := store.UpdateUserProfile(ctx, tx, cmd.UserID, nickname, address); err != nil {
			return err
		}
		user, err = store.GetUser(ctx, tx, cmd.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Matches carry partner nicknames.
	s.invalidateMatches(ctx)
	return user, nil
}

// ChangePassword replaces a user's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) (err error) {
	ctx, span := startSpan(ctx, "ChangePassword")
	defer func() { endSpan(span, err) }()

	if err := model.ValidatePassword(next); err != nil {
		return apperr.InvalidInput(err.Error(), map[string]string{"new_password": err.Error()})
	}

	return s.tx(ctx, func(tx *sql.Tx) error {
		user, err := requireUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
			return apperr.New(apperr.CodeUnauthorized, "current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, "hashing password", err)
		}
		return store.UpdateUserPassword(ctx, tx, id, string(hash))
	})
}

func requireUser(ctx context.Context, q store.Querier, id uuid.UUID) (*model.User, error) {
	user, err := store.GetUser(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user", id)
	}
	return user, nil
}

// adjustTrust loads a user, applies change and stores the new score.
func adjustTrust(ctx context.Context, q store.Querier, id uuid.UUID, change func(model.User) model.User) error {
	user, err := requireUser(ctx, q, id)
	if err != nil {
		return err
	}
	updated := change(*user)
	if updated.TrustScore.Equal(user.TrustScore) {
		return nil
	}
	return store.UpdateTrustScore(ctx, q, id, updated.TrustScore)
}
