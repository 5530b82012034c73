package service

import (
	"context"
	"testing"
	"time"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedContact(t *testing.T, repo *repository.MemoryContactRepository, ownerID int64, firstName string, birthday *time.Time) domain.Contact {
	t.Helper()
	created, err := repo.Create(context.Background(), domain.Contact{
		FirstName: firstName,
		Birthday:  birthday,
		UserID:    ownerID,
	})
	if err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return created
}

func ptr(t time.Time) *time.Time { return &t }

// failingContactRepo falla en cualquier acceso: sirve para verificar
// que la validacion corre antes de tocar el storage.
type failingContactRepo struct {
	repository.MemoryContactRepository
	t *testing.T
}

func (r *failingContactRepo) ListByBirthdayDay(_ context.Context, _ int64, _ time.Month, _ int) ([]domain.Contact, error) {
	r.t.Fatalf("storage accessed before validation")
	return nil, nil
}

func (r *failingContactRepo) ListWithBirthday(_ context.Context, _ int64) ([]domain.Contact, error) {
	r.t.Fatalf("storage accessed before validation")
	return nil, nil
}

func TestDayScan_SingleDayWindow(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2024, time.June, 10)
	seedContact(t, repo, 1, "Today", ptr(date(1990, time.June, 10)))
	seedContact(t, repo, 1, "Tomorrow", ptr(date(1990, time.June, 11)))

	got, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, today, 0)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Today" {
		t.Fatalf("expected only today's birthday, got %+v", got)
	}
}

func TestDayScan_YearWraparound(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2024, time.December, 30)
	seedContact(t, repo, 1, "January", ptr(date(1985, time.January, 2)))
	seedContact(t, repo, 1, "PastDecember", ptr(date(1985, time.December, 20)))

	got, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, today, 5)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "January" {
		t.Fatalf("expected the January birthday across the year boundary, got %+v", got)
	}
}

func TestDayScan_OrderedByDaysUntilBirthday(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2024, time.June, 1)
	seedContact(t, repo, 1, "Later", ptr(date(1990, time.June, 3)))
	seedContact(t, repo, 1, "Sooner", ptr(date(1990, time.June, 1)))

	got, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, today, 3)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(got))
	}
	if got[0].FirstName != "Sooner" || got[1].FirstName != "Later" {
		t.Fatalf("expected chronological order, got %+v", got)
	}
}

func TestDayScan_NegativeDaysFailsBeforeStorage(t *testing.T) {
	repo := &failingContactRepo{t: t}
	_, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, date(2024, time.June, 1), -1)
	if err != ErrNegativeWindow {
		t.Fatalf("expected ErrNegativeWindow, got %v", err)
	}
}

func TestDayScan_ExcludesNilBirthday(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2024, time.June, 10)
	seedContact(t, repo, 1, "NoBirthday", nil)
	seedContact(t, repo, 1, "WithBirthday", ptr(date(1990, time.June, 12)))

	got, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, today, 7)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "WithBirthday" {
		t.Fatalf("expected null birthdays excluded, got %+v", got)
	}
}

func TestDayScan_LeapDayFallsOnFeb28InNonLeapYears(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	seedContact(t, repo, 1, "LeapBaby", ptr(date(2000, time.February, 29)))

	// 2025 no es bisiesto: el 29-Feb se celebra el 28-Feb.
	got, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, date(2025, time.February, 26), 2)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected leap-day birthday on Feb 28 of a non-leap year, got %+v", got)
	}

	// 2024 es bisiesto: una ventana que termina el 28-Feb no lo incluye.
	got, err = NewDayScanQuerier(repo).Upcoming(context.Background(), 1, date(2024, time.February, 26), 2)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no match before Feb 29 of a leap year, got %+v", got)
	}

	// ...pero si la ventana llega al 29-Feb, matchea exacto.
	got, err = NewDayScanQuerier(repo).Upcoming(context.Background(), 1, date(2024, time.February, 26), 3)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exact match on Feb 29 of a leap year, got %+v", got)
	}
}

func TestBulkFilter_SingleDayWindow(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2024, time.June, 10)
	seedContact(t, repo, 1, "Today", ptr(date(1990, time.June, 10)))
	seedContact(t, repo, 1, "Tomorrow", ptr(date(1990, time.June, 11)))

	got, err := NewBulkFilterQuerier(repo).Upcoming(context.Background(), 1, today, 0)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Today" {
		t.Fatalf("expected only today's birthday, got %+v", got)
	}
}

func TestBulkFilter_YearWraparound(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2024, time.December, 30)
	seedContact(t, repo, 1, "January", ptr(date(1985, time.January, 2)))
	seedContact(t, repo, 1, "PastDecember", ptr(date(1985, time.December, 20)))

	got, err := NewBulkFilterQuerier(repo).Upcoming(context.Background(), 1, today, 5)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "January" {
		t.Fatalf("expected the January birthday via year normalization, got %+v", got)
	}
}

func TestBulkFilter_NegativeDaysFailsBeforeStorage(t *testing.T) {
	repo := &failingContactRepo{t: t}
	_, err := NewBulkFilterQuerier(repo).Upcoming(context.Background(), 1, date(2024, time.June, 1), -3)
	if err != ErrNegativeWindow {
		t.Fatalf("expected ErrNegativeWindow, got %v", err)
	}
}

func TestBulkFilter_LeapDayFallsOnFeb28InNonLeapYears(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	seedContact(t, repo, 1, "LeapBaby", ptr(date(2000, time.February, 29)))

	got, err := NewBulkFilterQuerier(repo).Upcoming(context.Background(), 1, date(2025, time.February, 26), 2)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected leap-day birthday on Feb 28 of a non-leap year, got %+v", got)
	}
}

func TestWindow_LongWraparoundIncludesLeapDayFallback(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	// Ventana del 30-Dic-2024 al 5-Mar-2025: cruza el año y cubre el
	// 28-Feb de un año no bisiesto.
	today := date(2024, time.December, 30)
	seedContact(t, repo, 1, "NewYear", ptr(date(1988, time.January, 1)))
	seedContact(t, repo, 1, "LeapBaby", ptr(date(1996, time.February, 29)))
	seedContact(t, repo, 1, "Outside", ptr(date(1990, time.March, 10)))

	queriers := map[string]BirthdayQuerier{
		"day scan":    NewDayScanQuerier(repo),
		"bulk filter": NewBulkFilterQuerier(repo),
	}
	for name, querier := range queriers {
		got, err := querier.Upcoming(context.Background(), 1, today, 65)
		if err != nil {
			t.Fatalf("%s: upcoming: %v", name, err)
		}
		if len(got) != 2 {
			t.Fatalf("%s: expected NewYear and LeapBaby, got %+v", name, got)
		}
		seen := map[string]bool{}
		for _, c := range got {
			seen[c.FirstName] = true
		}
		if !seen["NewYear"] || !seen["LeapBaby"] {
			t.Fatalf("%s: expected NewYear and LeapBaby, got %+v", name, got)
		}
	}
}

func TestBulkFilter_MatchesDayScanAsSet(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2023, time.December, 27)
	birthdays := []time.Time{
		date(1990, time.December, 27),
		date(1975, time.December, 31),
		date(1988, time.January, 1),
		date(2001, time.January, 3),
		date(1969, time.January, 10),
		date(1980, time.July, 15),
	}
	for i, b := range birthdays {
		seedContact(t, repo, 1, "C"+string(rune('A'+i)), ptr(b))
	}

	ordered, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, today, 7)
	if err != nil {
		t.Fatalf("day scan: %v", err)
	}
	unordered, err := NewBulkFilterQuerier(repo).Upcoming(context.Background(), 1, today, 7)
	if err != nil {
		t.Fatalf("bulk filter: %v", err)
	}

	if len(ordered) != len(unordered) {
		t.Fatalf("strategies disagree: %d vs %d", len(ordered), len(unordered))
	}
	seen := make(map[int64]bool, len(unordered))
	for _, c := range unordered {
		seen[c.ID] = true
	}
	for _, c := range ordered {
		if !seen[c.ID] {
			t.Fatalf("contact %d returned by day scan but not by bulk filter", c.ID)
		}
	}
}

func TestSortByUpcoming(t *testing.T) {
	today := date(2023, time.December, 27)
	contacts := []domain.Contact{
		{ID: 1, FirstName: "NewYear", Birthday: ptr(date(1988, time.January, 1))},
		{ID: 2, FirstName: "Today", Birthday: ptr(date(1990, time.December, 27))},
		{ID: 3, FirstName: "EndOfYear", Birthday: ptr(date(1975, time.December, 31))},
	}

	SortByUpcoming(contacts, today)

	want := []string{"Today", "EndOfYear", "NewYear"}
	for i, name := range want {
		if contacts[i].FirstName != name {
			t.Fatalf("expected %v at position %d, got %+v", name, i, contacts)
		}
	}
}

func TestBirthdayScopedToOwner(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	today := date(2024, time.June, 10)
	seedContact(t, repo, 1, "Mine", ptr(date(1990, time.June, 10)))
	seedContact(t, repo, 2, "Theirs", ptr(date(1990, time.June, 10)))

	got, err := NewDayScanQuerier(repo).Upcoming(context.Background(), 1, today, 0)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Mine" {
		t.Fatalf("expected only the owner's contacts, got %+v", got)
	}
}
