package controllers

import (
	"errors"

	"gorm.io/gorm"
)

// isDuplicate reports whether an insert hit a unique index. Check-then-insert
// races still reach the index, so Create errors must be mapped too.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
