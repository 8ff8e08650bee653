package validators

import (
	"homeradar-properties/internal/models"
)

type PropertyValidator interface {
	ValidateCreate(property *models.Property) error
	ValidateUpdate(property *models.Property) error
	ValidateSearch(req *models.SearchRequest) error
}

// UserValidator defines validation for user registration and login input.
type UserValidator interface {
	ValidateRegister(user *models.User) error
	ValidateLogin(email, password string) error
}
