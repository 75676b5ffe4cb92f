package service

import (
	"errors"

	"micampo/entities"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingFields      = errors.New("email and password are required")
)

const (
	DemoFarmName    = "Mi Estancia"
	DefaultFarmName = "Mi Campo"
)

// AuthService holds one active session and the local user registry.
type AuthService interface {
	Login(email, password string) (entities.User, error)
	Register(in RegisterInput) (entities.User, error)
	Logout()
	Current() (entities.User, bool)
	RegistrySize() int
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FarmName string `json:"farmName"`
}
