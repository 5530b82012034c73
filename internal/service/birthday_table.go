package service

import (
	"fmt"
	"strings"
	"time"

	"contacts-api/internal/domain"
)

// FormatBirthdayTable renderiza el resultado de la ventana de cumpleaños
// como tabla de texto para inspeccion manual: posicion, id, cumpleaños,
// edad que cumple este año y nombre completo. Las filas cuyo cumple es
// hoy llevan el marcador "*". Asume entrada ya ordenada (DayScanQuerier
// la produce ordenada; con BulkFilterQuerier usar SortByUpcoming antes).
func FormatBirthdayTable(contacts []domain.Contact, today time.Time, days int) string {
	if len(contacts) == 0 {
		return fmt.Sprintf("there are no contacts whose birthday is in the next %d days\n", days)
	}

	const separator = "------------------------------------------------"

	var b strings.Builder
	b.WriteString(separator + "\n")
	b.WriteString("    #    id   birthday    age   fullname\n")
	b.WriteString(separator + "\n")
	for i, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		marker := " "
		if c.Birthday.Month() == today.Month() && c.Birthday.Day() == today.Day() {
			marker = "*"
		}
		age := today.Year() - c.Birthday.Year()
		fmt.Fprintf(&b, "%s %3d. %5d  %s  %3d   %s\n",
			marker,
			i+1,
			c.ID,
			c.Birthday.Format("02-01-2006"),
			age,
			c.FullName(),
		)
	}
	b.WriteString(separator + "\n")
	return b.String()
}
