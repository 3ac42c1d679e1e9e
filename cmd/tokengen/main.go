package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/XXRadeonXFX/student-management-api/internal/tokens"
)

// tokengen mints an admin bearer token for the student-management-api.
// Pipelines run it once and stash the output in their credential store:
//
//	JWT_SECRET=... go run ./cmd/tokengen -sub ci-pipeline -ttl 720h
func main() {
	var (
		sub = flag.String("sub", "ci-pipeline", "token subject")
		ttl = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	tok, err := tokens.GenerateAdminToken(secret, *sub, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(tok)
}
