package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
)

// ContactService coordina reglas de negocio para contactos. El ownerID
// viene siempre del caller autenticado, nunca del payload.
type ContactService struct {
	logger   *zap.Logger
	contacts repository.ContactRepository
}

func NewContactService(logger *zap.Logger, contacts repository.ContactRepository) *ContactService {
	return &ContactService{
		logger:   logger,
		contacts: contacts,
	}
}

// ContactInput lleva los campos editables de un contacto. No incluye
// owner: la pertenencia se asigna en Create y no se reasigna nunca.
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  *time.Time
	Notes     string
}

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidContact  = errors.New("invalid contact")
)

func (s *ContactService) Create(ctx context.Context, ownerID int64, input ContactInput) (domain.Contact, error) {
	if err := validateContactInput(input); err != nil {
		return domain.Contact{}, err
	}

	contact := domain.Contact{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Birthday:  input.Birthday,
		Notes:     input.Notes,
		UserID:    ownerID,
	}

	created, err := s.contacts.Create(ctx, contact)
	if err != nil {
		return domain.Contact{}, err
	}
	return created, nil
}

// List devuelve los contactos del owner. Con search no vacio filtra por
// substring case-insensitive sobre nombre, apellido o email.
func (s *ContactService) List(ctx context.Context, ownerID int64, search string) ([]domain.Contact, error) {
	return s.contacts.List(ctx, ownerID, search)
}

func (s *ContactService) Get(ctx context.Context, id, ownerID int64) (domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, id, ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, ErrContactNotFound
	}
	if err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

// Update reemplaza todos los campos del contacto por los de input.
// El owner del registro nunca cambia.
func (s *ContactService) Update(ctx context.Context, id, ownerID int64, input ContactInput) (domain.Contact, error) {
	if err := validateContactInput(input); err != nil {
		return domain.Contact{}, err
	}

	replacement := domain.Contact{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Birthday:  input.Birthday,
		Notes:     input.Notes,
	}

	updated, err := s.contacts.Update(ctx, id, ownerID, replacement)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, ErrContactNotFound
	}
	if err != nil {
		return domain.Contact{}, err
	}
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id, ownerID int64) error {
	err := s.contacts.Delete(ctx, id, ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrContactNotFound
	}
	return err
}

func validateContactInput(input ContactInput) error {
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return fmt.Errorf("%w: first name is required", ErrInvalidContact)
	}
	if len(firstName) > domain.MaxNameLen || len(strings.TrimSpace(input.LastName)) > domain.MaxNameLen {
		return fmt.Errorf("%w: name too long", ErrInvalidContact)
	}
	if len(input.Email) > domain.MaxEmailLen {
		return fmt.Errorf("%w: email too long", ErrInvalidContact)
	}
	if len(input.Phone) > domain.MaxPhoneLen {
		return fmt.Errorf("%w: phone too long", ErrInvalidContact)
	}
	if len(input.Notes) > domain.MaxNotesLen {
		return fmt.Errorf("%w: notes too long", ErrInvalidContact)
	}
	return nil
}
