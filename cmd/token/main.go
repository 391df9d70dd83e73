// Command token issues an access token for the server, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/satriahrh/gemini-cloud-stt/internal/auth"
)

func main() {
	clientID := flag.String("client", "cli", "client ID stored in the token")
	role := flag.String("role", auth.RoleClient, "token role: admin or client")
	ttl := flag.Duration("ttl", auth.DefaultTTL, "token lifetime")
	flag.Parse()

	godotenv.Load()

	tokens, err := auth.NewTokenManager(os.Getenv("JWT_SECRET"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	token, expiresAt, err := tokens.GenerateToken(*clientID, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
