package service

import (
	"database/sql"
	"errors"

	"bytebank-api/model"
	"bytebank-api/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService handles operator-related business logic: registration and
// login for the users allowed to drive the account API.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register hashes the password and stores a new operator with the default
// role.
func (s *UserService) Register(req model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     string(model.RoleUser),
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and returns a signed access token.
func (s *UserService) Login(req model.LoginRequest) (string, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		return "", ErrInvalidCredentials
	}

	return GenerateJWT(user)
}
