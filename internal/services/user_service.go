package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"homeradar-properties/internal/models"
	"homeradar-properties/internal/repositories"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/auth"
)

type UserService struct {
	repo      repositories.UserRepository
	validator validators.UserValidator
	jwtSecret string
}

func NewUserService(repo repositories.UserRepository, validator validators.UserValidator, jwtSecret string) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
		jwtSecret: jwtSecret,
	}
}

func (s *UserService) Register(ctx context.Context, user *models.User) (*auth.TokenDetails, error) {
	if err := s.validator.ValidateRegister(user); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %v", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user.ID = primitive.NewObjectID()
	user.Password = string(hashedPassword)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	return auth.GenerateJWT(user.ID.Hex(), user.FullName, user.Email, s.jwtSecret)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*auth.TokenDetails, error) {
	if err := s.validator.ValidateLogin(email, password); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %v", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return auth.GenerateJWT(user.ID.Hex(), user.FullName, user.Email, s.jwtSecret)
}
