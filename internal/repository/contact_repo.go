package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contacts-api/internal/domain"
)

// ContactRepository define el contrato de persistencia para contactos.
// Cada operacion lleva el ownerID en el predicado: un tenant nunca
// observa ni modifica registros de otro. Ausencia y mismatch de owner
// se reportan igual (pgx.ErrNoRows).
type ContactRepository interface {
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	List(ctx context.Context, ownerID int64, search string) ([]domain.Contact, error)
	GetByID(ctx context.Context, id, ownerID int64) (domain.Contact, error)
	Update(ctx context.Context, id, ownerID int64, contact domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, id, ownerID int64) error
	ListByBirthdayDay(ctx context.Context, ownerID int64, month time.Month, day int) ([]domain.Contact, error)
	ListWithBirthday(ctx context.Context, ownerID int64) ([]domain.Contact, error)
}

// PgContactRepository implementa ContactRepository usando pgxpool.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

const contactColumns = `id, first_name, last_name, email, phone, birthday, notes, user_id`

func (r *PgContactRepository) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	const query = `
		INSERT INTO contacts (first_name, last_name, email, phone, birthday, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.Notes,
		contact.UserID,
	).Scan(&contact.ID)
	if err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

func (r *PgContactRepository) List(ctx context.Context, ownerID int64, search string) ([]domain.Contact, error) {
	if search == "" {
		const query = `
			SELECT ` + contactColumns + `
			FROM contacts
			WHERE user_id = $1
			ORDER BY id
		`
		rows, err := r.pool.Query(ctx, query, ownerID)
		if err != nil {
			return nil, err
		}
		return scanContacts(rows)
	}

	const query = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		  AND (first_name ILIKE '%' || $2 || '%'
		    OR last_name ILIKE '%' || $2 || '%'
		    OR email ILIKE '%' || $2 || '%')
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, ownerID, escapeLike(search))
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

// Los comodines de ILIKE se neutralizan para que la busqueda sea por
// substring literal, igual que la implementacion en memoria.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(search string) string {
	return likeEscaper.Replace(search)
}

func (r *PgContactRepository) GetByID(ctx context.Context, id, ownerID int64) (domain.Contact, error) {
	const query = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	var c domain.Contact
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Birthday,
		&c.Notes,
		&c.UserID,
	)
	if err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}

func (r *PgContactRepository) Update(ctx context.Context, id, ownerID int64, contact domain.Contact) (domain.Contact, error) {
	const query = `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone = $6, birthday = $7, notes = $8
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns + `
	`
	var c domain.Contact
	err := r.pool.QueryRow(ctx, query,
		id,
		ownerID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.Notes,
	).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Birthday,
		&c.Notes,
		&c.UserID,
	)
	if err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}

func (r *PgContactRepository) Delete(ctx context.Context, id, ownerID int64) error {
	const query = `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgContactRepository) ListByBirthdayDay(ctx context.Context, ownerID int64, month time.Month, day int) ([]domain.Contact, error) {
	const query = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		  AND birthday IS NOT NULL
		  AND EXTRACT(MONTH FROM birthday) = $2
		  AND EXTRACT(DAY FROM birthday) = $3
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, ownerID, int(month), day)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

func (r *PgContactRepository) ListWithBirthday(ctx context.Context, ownerID int64) ([]domain.Contact, error) {
	const query = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND birthday IS NOT NULL
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

func scanContacts(rows pgx.Rows) ([]domain.Contact, error) {
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var c domain.Contact
		err := rows.Scan(
			&c.ID,
			&c.FirstName,
			&c.LastName,
			&c.Email,
			&c.Phone,
			&c.Birthday,
			&c.Notes,
			&c.UserID,
		)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}
