package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"carz/pkg/identity"
	"carz/pkg/layout"
)

// Prints a signed identity token for local development. Store it in the
// carz_token cookie or send it as a bearer token.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./cmd/issue_token <username> [user|administrator]")
		os.Exit(2)
	}
	username := os.Args[1]
	role := layout.User
	if len(os.Args) > 2 {
		role = layout.ParseRole(os.Args[2])
	}

	secret := os.Getenv("CARZ_JWT_SECRET")
	if strings.TrimSpace(secret) == "" {
		secret = "dev-insecure-secret-change" // matches the server's development fallback
	}
	token, err := identity.Issue([]byte(secret), username, role, 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
