package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"contacts-api/internal/domain"
	"contacts-api/internal/email"
	"contacts-api/internal/repository"
)

// EmailTokenSource emite y valida tokens de confirmacion de email.
// Lo implementa JWTService.
type EmailTokenSource interface {
	GenerateEmailToken(emailAddr string) (string, error)
	ParseEmailToken(token string) (string, error)
}

// UserService coordina registro, login y confirmacion de email.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	emailTokens EmailTokenSource
	baseURL     string
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, emailTokens EmailTokenSource, baseURL string) *UserService {
	return &UserService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		emailTokens: emailTokens,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
)

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        emailAddr,
		PasswordHash: string(hashBytes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	// El registro no falla si el correo no sale: el usuario puede pedir
	// la confirmacion de nuevo.
	if err := s.sendConfirmation(ctx, created.Email); err != nil {
		s.logger.Warn("confirmation email failed", zap.String("email", created.Email), zap.Error(err))
	}

	return created, nil
}

func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(emailAddr))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return domain.User{}, ErrEmailNotConfirmed
	}
	return user, nil
}

// ConfirmEmail valida el token recibido por correo y marca la cuenta.
// Devuelve true si la cuenta ya estaba confirmada.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	emailAddr, err := s.emailTokens.ParseEmailToken(token)
	if err != nil {
		return false, err
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, err
	}
	if user.Confirmed {
		return true, nil
	}

	return false, s.users.ConfirmEmail(ctx, emailAddr)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateAvatar(ctx context.Context, id int64, avatarURL string) (domain.User, error) {
	user, err := s.users.UpdateAvatar(ctx, id, strings.TrimSpace(avatarURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) sendConfirmation(ctx context.Context, emailAddr string) error {
	token, err := s.emailTokens.GenerateEmailToken(emailAddr)
	if err != nil {
		return err
	}
	link := s.baseURL + "/api/auth/confirmed_email/" + token
	return s.emailSender.SendConfirmation(ctx, emailAddr, link)
}

func normalizeEmail(emailAddr string) string {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if !strings.Contains(emailAddr, "@") {
		return ""
	}
	return emailAddr
}
