package service

import (
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// InitValidator registers the custom rules once. Call it before any request
// validation, usually from main's init.
func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", validUsername)
	})
}

// validUsername accepts letters, digits and underscores. The first rune may
// not be a digit or underscore.
func validUsername(fl validator.FieldLevel) bool {
	for i, char := range fl.Field().String() {
		if i == 0 && (unicode.IsDigit(char) || char == '_') {
			return false
		}
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
			return false
		}
	}
	return true
}
