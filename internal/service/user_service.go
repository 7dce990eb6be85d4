package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskhive/internal/domain"
	"taskhive/internal/repository"
	"taskhive/internal/storage"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAvatarTooLarge     = errors.New("avatar exceeds size limit")
	ErrAvatarEmpty        = errors.New("avatar image empty")
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// maxAvatarBytes limita el tamaño de imagen de perfil.
const maxAvatarBytes = 4 * 1024 * 1024

// UserService coordina registro, login y perfil de usuarios.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	sessions    SessionStore
	files       storage.FileStore
	fileBaseURL string
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, sessions SessionStore, files storage.FileStore, fileBaseURL string) *UserService {
	return &UserService{
		logger:      logger,
		users:       users,
		sessions:    sessions,
		files:       files,
		fileBaseURL: strings.TrimRight(fileBaseURL, "/"),
	}
}

type SignUpInput struct {
	Email    string
	UserName string
	Password string
}

func (s *UserService) SignUp(ctx context.Context, input SignUpInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailRx.MatchString(email) {
		return domain.User{}, ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		UserName:     strings.TrimSpace(input.UserName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.String("email", email), zap.Error(err))
		return domain.User{}, err
	}
	return user, nil
}

// Login valida credenciales y devuelve el token de sesión. Un login
// repetido reutiliza la sesión viva existente.
func (s *UserService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRx.MatchString(email) {
		return "", domain.User{}, ErrInvalidEmail
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", domain.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		s.logger.Error("session create failed", zap.String("user_id", user.ID), zap.Error(err))
		return "", domain.User{}, err
	}
	return token, user, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.sessions.Remove(ctx, token)
}

func (s *UserService) Profile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

// SetAvatar sube la imagen al object store y guarda la URL pública en el
// perfil del usuario. El upload va primero: si falla, el perfil no queda
// apuntando a un objeto inexistente.
func (s *UserService) SetAvatar(ctx context.Context, userID string, image []byte) error {
	if s.files == nil {
		// Despliegue sin object store configurado.
		return ErrUnavailable
	}
	if len(image) == 0 {
		return ErrAvatarEmpty
	}
	if len(image) > maxAvatarBytes {
		return ErrAvatarTooLarge
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/avatar.jpg", user.UserName)
	url := fmt.Sprintf("%s/%s", s.fileBaseURL, key)

	if err := s.files.Upload(ctx, key, image); err != nil {
		s.logger.Error("avatar upload failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return s.users.SetProfileImage(ctx, userID, url)
}
