package persistence

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// constraintMessages are driver messages for integrity failures that reach
// us untranslated (sqlite without TranslateError, raw SQL paths).
var constraintMessages = []string{
	"violates foreign key constraint",
	"foreign key constraint failed",
	"violates unique constraint",
	"duplicate key value",
	"unique constraint failed",
	"violates check constraint",
	"violates not-null constraint",
	"not null constraint failed",
}

// translateError maps store errors onto domain errors. The original error is
// kept in the chain for logging.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if isConstraintError(err) {
		return fmt.Errorf("%w: %s", shared.ErrConstraintViolation, err.Error())
	}
	return err
}

func isConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range constraintMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
