// Command admin-token mints a bearer token for the admin routes, signed
// with ADMIN_JWT_SECRET.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/LovationAdmin/device-compare-api/middleware"

	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "", "operator the token is issued to")
	ttl := flag.Duration("ttl", middleware.DefaultAdminTokenTTL, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token, err := issueToken(os.Getenv("ADMIN_JWT_SECRET"), *subject, *ttl)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Println(token)
}

func issueToken(secret, subject string, ttl time.Duration) (string, error) {
	switch {
	case secret == "":
		return "", errors.New("ADMIN_JWT_SECRET is not set")
	case subject == "":
		return "", errors.New("-subject is required")
	case ttl <= 0:
		return "", errors.New("-ttl must be positive")
	}
	tokens := middleware.AdminTokens{
		Secret:   []byte(secret),
		Issuer:   middleware.AdminIssuer,
		Duration: ttl,
	}
	return tokens.Sign(subject)
}
