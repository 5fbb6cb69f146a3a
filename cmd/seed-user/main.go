// Command seed-user provisions an account record directly in DynamoDB.
// The API itself never creates accounts; registration lives in another
// service, so local and staging environments use this to get a user the
// token and phone endpoints can resolve.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/handabata/otp-service/internal/config"
	"github.com/handabata/otp-service/internal/domain"
	"github.com/handabata/otp-service/internal/infrastructure/dynamo"
	"github.com/handabata/otp-service/internal/pkg/id"
	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	phone := flag.String("phone", "", "account phone number in E.164 form (optional)")
	name := flag.String("name", "", "display name (optional)")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: seed-user -email juan@example.com [-phone +639171234567] [-name Juan]")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()

	client := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), client, cfg.DynamoTables)
	users := dynamo.NewUserRepo(client, cfg.DynamoTables.Users)

	now := time.Now().UTC()
	u := &domain.User{
		UserID:      id.New(),
		Email:       *email,
		DisplayName: *name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if *phone != "" {
		u.Phone = phone
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := users.Put(ctx, u); err != nil {
		log.Fatalf("seed user: %v", err)
	}
	log.Printf("Created user %s (%s)", u.UserID, u.Email)
}
