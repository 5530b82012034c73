package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
)

// BirthdayQuerier selecciona los contactos de un owner cuyo cumpleaños
// (mes y dia, el año se ignora) cae en la ventana inclusiva
// [today, today+days]. days = 0 significa "cumple hoy".
type BirthdayQuerier interface {
	Upcoming(ctx context.Context, ownerID int64, today time.Time, days int) ([]domain.Contact, error)
}

var ErrNegativeWindow = errors.New("birthday window must not be negative")

// DayScanQuerier recorre la ventana dia por dia y busca coincidencias
// exactas de mes/dia. El resultado queda ordenado por dias hasta el
// cumple, y el cruce de año sale gratis porque cada fecha candidata es
// una fecha real. Costo O(days) consultas; days es chico por contrato.
type DayScanQuerier struct {
	contacts repository.ContactRepository
}

func NewDayScanQuerier(contacts repository.ContactRepository) *DayScanQuerier {
	return &DayScanQuerier{contacts: contacts}
}

func (q *DayScanQuerier) Upcoming(ctx context.Context, ownerID int64, today time.Time, days int) ([]domain.Contact, error) {
	if days < 0 {
		return nil, ErrNegativeWindow
	}
	today = truncateToDay(today)

	var result []domain.Contact
	for k := 0; k <= days; k++ {
		candidate := today.AddDate(0, 0, k)
		matches, err := q.contacts.ListByBirthdayDay(ctx, ownerID, candidate.Month(), candidate.Day())
		if err != nil {
			return nil, err
		}
		result = append(result, matches...)

		// En años no bisiestos los cumples del 29-Feb se celebran el 28-Feb.
		if candidate.Month() == time.February && candidate.Day() == 28 && !isLeapYear(candidate.Year()) {
			leapDay, err := q.contacts.ListByBirthdayDay(ctx, ownerID, time.February, 29)
			if err != nil {
				return nil, err
			}
			result = append(result, leapDay...)
		}
	}
	return result, nil
}

// BulkFilterQuerier trae todos los contactos con cumpleaños de una sola
// vez y filtra en memoria. Mas barato con muchos dias o pocos contactos,
// pero no garantiza orden: ordenar con SortByUpcoming antes de presentar.
type BulkFilterQuerier struct {
	contacts repository.ContactRepository
}

func NewBulkFilterQuerier(contacts repository.ContactRepository) *BulkFilterQuerier {
	return &BulkFilterQuerier{contacts: contacts}
}

func (q *BulkFilterQuerier) Upcoming(ctx context.Context, ownerID int64, today time.Time, days int) ([]domain.Contact, error) {
	if days < 0 {
		return nil, ErrNegativeWindow
	}
	today = truncateToDay(today)
	end := today.AddDate(0, 0, days)

	contacts, err := q.contacts.ListWithBirthday(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var result []domain.Contact
	for _, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		// Si la ventana cruza el 31-Dic, la ocurrencia in-window puede
		// caer en el año siguiente: hay que probar ambos años.
		for _, year := range []int{today.Year(), today.Year() + 1} {
			occurrence := birthdayInYear(*c.Birthday, year)
			if !occurrence.Before(today) && !occurrence.After(end) {
				result = append(result, c)
				break
			}
		}
	}
	return result, nil
}

// SortByUpcoming ordena in place por dias hasta el proximo cumpleaños.
func SortByUpcoming(contacts []domain.Contact, today time.Time) {
	today = truncateToDay(today)
	sort.SliceStable(contacts, func(i, j int) bool {
		return daysUntilBirthday(contacts[i], today) < daysUntilBirthday(contacts[j], today)
	})
}

func daysUntilBirthday(c domain.Contact, today time.Time) int {
	if c.Birthday == nil {
		return int(^uint(0) >> 1)
	}
	next := birthdayInYear(*c.Birthday, today.Year())
	if next.Before(today) {
		next = birthdayInYear(*c.Birthday, today.Year()+1)
	}
	return int(next.Sub(today).Hours() / 24)
}

// birthdayInYear proyecta un cumpleaños al año dado. El 29-Feb se
// normaliza al 28-Feb cuando el año no es bisiesto.
func birthdayInYear(birthday time.Time, year int) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
