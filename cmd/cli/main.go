package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"unicode/utf8"

	"github.com/mr-saberi/siite/internal/auth"
	"github.com/mr-saberi/siite/internal/config"
	"github.com/mr-saberi/siite/internal/store"
)

const usage = "expected 'add-user', 'seed' or 'hash-passwords' subcommand"

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	username := addUserCmd.String("username", "", "Username for the new user")
	password := addUserCmd.String("password", "", "Password for the new user")
	admin := addUserCmd.Bool("admin", false, "Grant admin rights")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	catalog := seedCmd.Bool("catalog", true, "Also insert the demo catalog")

	hashCmd := flag.NewFlagSet("hash-passwords", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		if utf8.RuneCountInString(*username) < 3 || utf8.RuneCountInString(*password) < 6 {
			fmt.Println("username (min 3) and password (min 6) are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		_, db := openStore(ctx)
		createUser(ctx, db, *username, *password, *admin)
	case "seed":
		seedCmd.Parse(os.Args[2:])
		cfg, db := openStore(ctx)
		seed(ctx, cfg, db, *catalog)
	case "hash-passwords":
		hashCmd.Parse(os.Args[2:])
		_, db := openStore(ctx)
		hashPasswords(ctx, db)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (*config.Config, *store.Store) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := store.NewStore(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return cfg, db
}

func createUser(ctx context.Context, db *store.Store, username, password string, admin bool) {
	defer db.Close()

	cred, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if _, err := db.CreateUser(ctx, username, cred, admin); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			log.Fatalf("User '%s' already exists.", username)
		}
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' created successfully.\n", username)
}

func seed(ctx context.Context, cfg *config.Config, db *store.Store, catalog bool) {
	defer db.Close()

	cred, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	seeded, err := db.Seed(ctx, store.SeedOptions{
		AdminUsername:   cfg.AdminUsername,
		AdminCredential: cred,
		Catalog:         catalog,
	})
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	if !seeded {
		fmt.Println("Database already contains users. Nothing to do.")
		return
	}
	fmt.Println("Database seeded.")
}

func hashPasswords(ctx context.Context, db *store.Store) {
	defer db.Close()

	users, err := db.ListPlainCredentialUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	for _, u := range users {
		cred, err := auth.HashPassword(u.Credential.Value)
		if err != nil {
			log.Fatalf("Failed to hash password for '%s': %v", u.Username, err)
		}
		if _, err := db.SetUserCredential(ctx, u.ID, cred); err != nil {
			log.Fatalf("Failed to update '%s': %v", u.Username, err)
		}
		fmt.Printf("Upgraded '%s' to bcrypt.\n", u.Username)
	}
	fmt.Printf("%d user(s) upgraded.\n", len(users))
}
