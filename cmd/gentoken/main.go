// Developer utility that mints role-scoped tokens for exercising gated
// routes locally.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eventdeck/server/internal/auth"
)

func main() {
	role := flag.String("role", "user", "token role (user or admin)")
	userID := flag.String("id", "local-dev", "subject user id")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: JWT_SECRET is not set")
		os.Exit(1)
	}

	r := auth.Role(*role)
	if !r.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown role %q\n", *role)
		os.Exit(1)
	}

	token, err := auth.NewTokenManager(secret).Issue(r, *userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Println("\nTest with:")
	fmt.Printf("curl -H '%s: %s' http://localhost:8080/api/%s\n", r.Header(), token, *role)
}
