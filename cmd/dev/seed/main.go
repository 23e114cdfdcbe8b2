// seed provisions the first login on a fresh database, typically an admin
// account that then creates everyone else through the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tourbook/internal/api"
	"tourbook/internal/auth"
	"tourbook/pkg/config"
	"tourbook/pkg/db"
)

func main() {
	var (
		email    = flag.String("email", "", "account email")
		password = flag.String("password", "", "account password (min 8 chars)")
		name     = flag.String("name", "", "display name")
		role     = flag.String("role", "admin", "customer | admin | resource")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "missing -email or -password")
		os.Exit(2)
	}
	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(2)
	}
	var r api.Role
	switch api.Role(*role) {
	case api.RoleCustomer, api.RoleAdmin, api.RoleResource:
		r = api.Role(*role)
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	u, err := auth.NewRepository(pool).Create(ctx, *email, *name, *password, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created %s user %s (%s)\n", u.Role, u.Email, u.ID)
}
