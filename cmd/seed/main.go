package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"contacts-api/internal/config"
	"contacts-api/internal/db"
	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
	"contacts-api/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	firstNames = []string{
		"Oleh", "Iryna", "Taras", "Olena", "Andrii", "Kateryna",
		"Dmytro", "Natalia", "Serhii", "Oksana", "Bohdan", "Yulia",
	}
	lastNames = []string{
		"Shevchenko", "Kovalenko", "Bondarenko", "Tkachenko",
		"Melnyk", "Kravchenko", "Boiko", "Lysenko",
	}
	phoneCodes = []string{
		"067", "097", "096", "098", "068", "050",
		"066", "095", "099", "063", "093", "073",
	}
	notes = []string{
		"", "met at the conference", "", "college friend",
		"", "prefers calls after 6pm", "",
	}
)

// Utilidad batch: puebla usuarios y contactos de demo llamando a los
// repositorios, y muestra la tabla de proximos cumpleaños como smoke
// check del motor de ventanas.
func main() {
	userCount := flag.Int("users", 3, "demo users to create")
	contactCount := flag.Int("contacts", 30, "demo contacts to create")
	days := flag.Int("days", 7, "birthday window to print")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	contactRepo := repository.NewPgContactRepository(pool)

	users, err := seedUsers(ctx, userRepo, *userCount)
	if err != nil {
		logger.Fatal("seed users", zap.Error(err))
	}
	if err := seedContacts(ctx, contactRepo, users, *contactCount); err != nil {
		logger.Fatal("seed contacts", zap.Error(err))
	}
	logger.Info("seed complete",
		zap.Int("users", len(users)),
		zap.Int("contacts", *contactCount),
	)

	// El querier bulk no garantiza orden: ordenar antes de imprimir.
	today := time.Now().UTC()
	querier := service.NewBulkFilterQuerier(contactRepo)
	upcoming, err := querier.Upcoming(ctx, users[0].ID, today, *days)
	if err != nil {
		logger.Fatal("birthday window", zap.Error(err))
	}
	service.SortByUpcoming(upcoming, today)
	fmt.Print(service.FormatBirthdayTable(upcoming, today, *days))
}

func seedUsers(ctx context.Context, users repository.UserRepository, count int) ([]domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var created []domain.User
	for i := 0; i < count; i++ {
		user, err := users.Create(ctx, domain.User{
			Username:     fmt.Sprintf("demo_user_%d", i+1),
			Email:        fmt.Sprintf("demo%d@example.com", i+1),
			PasswordHash: string(hash),
			Confirmed:    true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, user)
	}
	return created, nil
}

func seedContacts(ctx context.Context, contacts repository.ContactRepository, owners []domain.User, count int) error {
	for i := 0; i < count; i++ {
		owner := owners[rand.Intn(len(owners))]
		birthday := randomBirthday()
		_, err := contacts.Create(ctx, domain.Contact{
			FirstName: firstNames[rand.Intn(len(firstNames))],
			LastName:  lastNames[rand.Intn(len(lastNames))],
			Email:     fmt.Sprintf("contact%d@example.com", i+1),
			Phone:     randomPhone(),
			Birthday:  &birthday,
			Notes:     notes[rand.Intn(len(notes))],
			UserID:    owner.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func randomBirthday() time.Time {
	year := 1950 + rand.Intn(60)
	dayOfYear := rand.Intn(365)
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear)
}

func randomPhone() string {
	return fmt.Sprintf("+38%s%07d", phoneCodes[rand.Intn(len(phoneCodes))], rand.Intn(10000000))
}
