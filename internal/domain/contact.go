package domain

import "time"

// Limites de longitud de campos, alineados con el esquema de la tabla.
const (
	MaxNameLen  = 50
	MaxEmailLen = 100
	MaxPhoneLen = 20
	MaxNotesLen = 250
)

// Contact es un registro de agenda propiedad de un unico usuario.
// Birthday es opcional; solo mes y dia importan para recurrencia.
type Contact struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	UserID    int64      `json:"user_id"`
}

// FullName concatena nombre y apellido para presentacion.
func (c Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
