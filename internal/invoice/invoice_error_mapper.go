package invoice

import (
	"errors"
	"strings"

	invoiceerrors "shelfmarket/internal/invoice/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invoiceerrors.ErrInvoiceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "order_id") {
			return invoiceerrors.ErrDuplicateOrderInvoice
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "order_id") {
		return invoiceerrors.ErrDuplicateOrderInvoice
	}

	return err
}
