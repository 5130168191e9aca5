package database

import (
	"errors"

	"anoa.com/municipalservices/pkg/apperror"
	"gorm.io/gorm"
)

// TranslateError maps gorm errors onto the application taxonomy. Messages are
// used when the mapped error is returned to a client.
func TranslateError(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(conflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.BadRequest("referenced record does not exist")
	default:
		return err
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
