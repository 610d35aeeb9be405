// Command tokens mints an API key directly in the database, bypassing the
// approval workflow. Meant for bootstrap and local development.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/orquestadev/orquesta/internal/config"
	"github.com/orquestadev/orquesta/internal/model"
	"github.com/orquestadev/orquesta/internal/repository"
	"github.com/orquestadev/orquesta/internal/util"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: tokens <owner_name> [purpose]")
		os.Exit(1)
	}
	owner := os.Args[1]
	purpose := "bootstrap"
	if len(os.Args) > 2 {
		purpose = os.Args[2]
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	dbConfig := config.LoadDBConfig()
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host, dbConfig.User, dbConfig.Password, dbConfig.Name, dbConfig.Port, dbConfig.SSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	if err := db.AutoMigrate(&model.ApiKey{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	token, err := util.GenerateToken()
	if err != nil {
		log.Fatalf("could not generate token: %v", err)
	}

	key := &model.ApiKey{
		ID:        uuid.New(),
		Key:       token,
		Owner:     owner,
		Purpose:   purpose,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := repository.NewApiKeyRepository(db).Create(key); err != nil {
		log.Fatalf("could not store key: %v", err)
	}

	fmt.Printf("\nToken created successfully for %q\n", owner)
	fmt.Printf("Token: %s\n", token)
	fmt.Printf("Header: Authorization: Bearer %s\n\n", token)
}
