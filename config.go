// config.go

package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	MongoURI      string
	DBName        string
	Port          string
	StripeKey     string
	WebhookSecret string
	TaxRateID     string
	SuccessURL    string
	CancelURL     string
}

func LoadConfig() Config {
	// .env is optional; real deployments set the variables directly
	_ = godotenv.Load()

	redirectBase := getenv("CHECKOUT_REDIRECT_BASE", "http://localhost:5000")

	return Config{
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getenv("DB_NAME", "eye_goggles"),
		Port:          getenv("PORT", "5000"),
		StripeKey:     os.Getenv("STRIPE_KEY"),
		WebhookSecret: os.Getenv("WEBHOOK_ENDPOINT_SECRET"),
		TaxRateID:     os.Getenv("STRIPE_TAX_RATE_ID"),
		SuccessURL:    redirectBase + "/checkout-success",
		CancelURL:     redirectBase + "/checkout-cancel",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
