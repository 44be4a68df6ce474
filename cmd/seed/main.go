package main

import (
	"context"
	"log"
	"os"

	"opinor/internal/config"
	"opinor/internal/database"
	"opinor/internal/domain"
	"opinor/internal/modules/feedback"
	"opinor/internal/modules/keywords"
	"opinor/internal/modules/notification"
	"opinor/internal/modules/qrcode"
	"opinor/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a local database with an admin account and two demo businesses
// with feedback, so the dashboard has something to show. Feedback goes
// through the real intake pipeline, so seeded reviews also produce
// their routed notifications.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	businesses := repository.NewBusinessRepository(db)
	admins := repository.NewAdminRepository(db)

	lexicon, err := keywords.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		log.Fatal(err)
	}
	notifService := notification.NewService(repository.NewNotificationRepository(db), nil, nil)
	router := notification.NewRouter(notifService, keywords.NewDetector(lexicon))
	intake := feedback.NewService(
		repository.NewFeedbackRepository(db),
		businesses,
		router,
		feedback.RateLimitConfig{}, // seeding submits several rows per business
		nil,
	)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin12345"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	if err := admins.Create(ctx, &domain.Admin{
		Email:        "admin@opinor.local",
		PasswordHash: string(hash),
		Role:         domain.RoleSuperAdmin,
	}); err != nil {
		log.Printf("admin seed skipped: %v", err)
	}

	ownerHash, err := bcrypt.GenerateFromPassword([]byte("owner12345"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	demo := []struct {
		email string
		name  string
		typ   domain.BusinessType
		code  string
	}{
		{"bistro@opinor.local", "Le Petit Bistro", domain.BusinessRestaurant, "BISTRO01"},
		{"plage@opinor.local", "Plage du Soleil", domain.BusinessBeach, "PLAGE001"},
	}

	for _, d := range demo {
		b := &domain.Business{
			Email:        d.email,
			PasswordHash: string(ownerHash),
			BusinessName: d.name,
			BusinessType: d.typ,
			PublicCode:   d.code,
			QRCodeURL:    qrcode.ImageURL(qrcode.FeedbackPageURL(cfg.FrontendURL, d.code)),
			Language:     "fr",
			IsActive:     true,
		}
		if err := businesses.Create(ctx, b); err != nil {
			log.Printf("business seed skipped (%s): %v", d.email, err)
			continue
		}

		samples := []struct {
			rating  float64
			comment string
		}{
			{5, "Service impeccable, nous reviendrons !"},
			{3, "Correct sans plus."},
			{1, "Tres decu, l'attente etait interminable."},
		}
		for _, s := range samples {
			_, err := intake.Submit(ctx, d.code, feedback.SubmitRequest{
				Rating:   s.rating,
				Comment:  s.comment,
				Category: string(domain.CategoryService),
			}, "")
			if err != nil {
				log.Printf("feedback seed failed: %v", err)
			}
		}
		log.Printf("seeded %s (code %s)", d.name, d.code)
	}

	log.Println("seed complete")
}
