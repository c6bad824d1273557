package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("record not found")
)

type GormRepo struct {
	DB *gorm.DB
}
