package user

import (
	"context"
	"errors"

	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService interface {
	Register(ctx context.Context, user *User, password string) error
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type UserServiceImpl struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) Register(ctx context.Context, user *User, password string) error {
	if user.Email == "" || user.Name == "" {
		return errors.New("name and email are required")
	}
	switch user.Role {
	case utils.RoleAdmin, utils.RoleSubadmin, utils.RoleEmployee:
	default:
		return errors.New("invalid role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	return s.repo.Create(ctx, user)
}

func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, user.Email, user.Name)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
