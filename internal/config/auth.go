package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"sync"
)

type AuthConfig struct {
	AdminToken             string
	DefaultTokenExpiryDays int
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		adminToken := os.Getenv("ORQUESTA_ADMIN_TOKEN")
		if adminToken == "" {
			// Temporary token so development still works; production must
			// set ORQUESTA_ADMIN_TOKEN explicitly.
			buf := make([]byte, 32)
			if _, err := rand.Read(buf); err != nil {
				log.Fatalf("could not generate temporary admin token: %v", err)
			}
			adminToken = base64.RawURLEncoding.EncodeToString(buf)
			log.Println("WARNING: ORQUESTA_ADMIN_TOKEN not set, using temporary token:", adminToken)
		}

		expiryDays := 365
		if v := os.Getenv("DEFAULT_TOKEN_EXPIRY_DAYS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				expiryDays = n
			}
		}

		authConfig = &AuthConfig{
			AdminToken:             adminToken,
			DefaultTokenExpiryDays: expiryDays,
		}
	})
	return authConfig
}
