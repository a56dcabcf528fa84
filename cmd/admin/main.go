// Package main provides admin management utilities for tactac.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"tactac/internal/bootstrap"
	"tactac/internal/config"
	"tactac/internal/models"
	"tactac/internal/repository"
)

const usage = `Usage:
  go run ./cmd/admin promote <user_id>              - Promote user to admin
  go run ./cmd/admin demote <user_id>               - Demote admin to user
  go run ./cmd/admin set-status <user_id> <status>  - Set active, suspended or deactivated
  go run ./cmd/admin list-admins                    - List all admins`

var errUsage = errors.New(usage)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := run(context.Background(), repository.NewUserRepository(db), os.Args[1:], os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, users repository.UserRepository, args []string, out io.Writer) error {
	switch args[0] {
	case "promote":
		if len(args) < 2 {
			return errUsage
		}
		return setRole(ctx, users, args[1], models.RoleAdmin, out)

	case "demote":
		if len(args) < 2 {
			return errUsage
		}
		return setRole(ctx, users, args[1], models.RoleUser, out)

	case "set-status":
		if len(args) < 3 {
			return errUsage
		}
		return setStatus(ctx, users, args[1], models.UserStatus(args[2]), out)

	case "list-admins":
		return listAdmins(ctx, users, out)

	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func loadUser(ctx context.Context, users repository.UserRepository, rawID string) (*models.User, error) {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("invalid user ID %q", rawID)
	}
	user, err := users.GetByID(ctx, uint(id))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, fmt.Errorf("user with ID %s not found", rawID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}

func setRole(ctx context.Context, users repository.UserRepository, rawID string, role models.UserRole, out io.Writer) error {
	user, err := loadUser(ctx, users, rawID)
	if err != nil {
		return err
	}
	if user.Role == role {
		fmt.Fprintf(out, "User %s (ID: %d) already has role %s\n", user.Username, user.ID, role)
		return nil
	}

	if err := users.UpdateFields(ctx, user.ID, map[string]interface{}{"role": role}); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	fmt.Fprintf(out, "✅ %s (ID: %d) is now %s\n", user.Username, user.ID, role)
	return nil
}

func setStatus(ctx context.Context, users repository.UserRepository, rawID string, status models.UserStatus, out io.Writer) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	user, err := loadUser(ctx, users, rawID)
	if err != nil {
		return err
	}

	if err := users.UpdateFields(ctx, user.ID, map[string]interface{}{"status": status}); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	fmt.Fprintf(out, "✅ %s (ID: %d) is now %s\n", user.Username, user.ID, status)
	return nil
}

func listAdmins(ctx context.Context, users repository.UserRepository, out io.Writer) error {
	admins, err := users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to fetch admins: %w", err)
	}

	if len(admins) == 0 {
		fmt.Fprintln(out, "No admins found in the system")
		return nil
	}

	fmt.Fprintln(out, "📋 Current Admins:")
	fmt.Fprintln(out, "─────────────────────────────────────")
	for _, admin := range admins {
		fmt.Fprintf(out, "ID: %d | Username: %s | Email: %s | Status: %s\n", admin.ID, admin.Username, admin.Email, admin.Status)
	}
	fmt.Fprintln(out, "─────────────────────────────────────")
	return nil
}
