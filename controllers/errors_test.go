package controllers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicate(fmt.Errorf("insert users: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, isDuplicate(gorm.ErrRecordNotFound))
	assert.False(t, isDuplicate(errors.New("connection reset")))
	assert.False(t, isDuplicate(nil))
}
