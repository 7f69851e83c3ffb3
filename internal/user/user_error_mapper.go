package user

import (
	"errors"
	"strings"

	usererrors "shelfmarket/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return usererrors.ErrEmailAlreadyExists
		}
	}

	if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "email") {
		return usererrors.ErrEmailAlreadyExists
	}

	return err
}
