// Command devjwt mints HS256 bearer tokens for local development against the
// itinerary API. It prints a ready-to-export PLANNER_TOKEN value.
//
// This is NOT an identity provider. It only exists so local runs can exercise
// real bearer auth instead of the X-Debug-Subject dev shim.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/lakbay-tourism/itinerary-api/internal/platform/auth/tokens"
)

func main() {
	_ = godotenv.Load()

	sub := flag.String("sub", "dev|local", "subject claim for the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	export := flag.Bool("export", false, "print as an export PLANNER_TOKEN=... line")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "devjwt: JWT_SECRET must be set (the same secret the API uses)")
		os.Exit(1)
	}

	raw, err := tokens.Sign(secret, *sub, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devjwt: %v\n", err)
		os.Exit(1)
	}

	if *export {
		fmt.Printf("export PLANNER_TOKEN=%s\n", raw)
		return
	}
	fmt.Println(raw)
}
