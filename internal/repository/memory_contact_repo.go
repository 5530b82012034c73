package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"contacts-api/internal/domain"
)

// MemoryContactRepository implementa ContactRepository en memoria.
// Sirve para tests y para correr el seed/demo sin Postgres. Reporta
// ausencia con pgx.ErrNoRows, igual que la implementacion Pg.
type MemoryContactRepository struct {
	mu       sync.Mutex
	nextID   int64
	contacts []domain.Contact
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{nextID: 1}
}

func (r *MemoryContactRepository) Create(_ context.Context, contact domain.Contact) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contact.ID = r.nextID
	r.nextID++
	r.contacts = append(r.contacts, contact)
	return contact, nil
}

func (r *MemoryContactRepository) List(_ context.Context, ownerID int64, search string) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.UserID != ownerID {
			continue
		}
		if search != "" && !matchesSearch(c, search) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *MemoryContactRepository) GetByID(_ context.Context, id, ownerID int64) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID == id && c.UserID == ownerID {
			return c, nil
		}
	}
	return domain.Contact{}, pgx.ErrNoRows
}

func (r *MemoryContactRepository) Update(_ context.Context, id, ownerID int64, contact domain.Contact) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.contacts {
		if c.ID != id || c.UserID != ownerID {
			continue
		}
		// Reemplazo completo de campos; id y owner no cambian.
		contact.ID = c.ID
		contact.UserID = c.UserID
		r.contacts[i] = contact
		return contact, nil
	}
	return domain.Contact{}, pgx.ErrNoRows
}

func (r *MemoryContactRepository) Delete(_ context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.contacts {
		if c.ID == id && c.UserID == ownerID {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *MemoryContactRepository) ListByBirthdayDay(_ context.Context, ownerID int64, month time.Month, day int) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.UserID != ownerID || c.Birthday == nil {
			continue
		}
		if c.Birthday.Month() == month && c.Birthday.Day() == day {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryContactRepository) ListWithBirthday(_ context.Context, ownerID int64) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.UserID == ownerID && c.Birthday != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

// matchesSearch replica la semantica del repositorio Pg: substring
// literal case-insensitive sobre nombre, apellido o email.
func matchesSearch(c domain.Contact, search string) bool {
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(c.FirstName), q) ||
		strings.Contains(strings.ToLower(c.LastName), q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}
