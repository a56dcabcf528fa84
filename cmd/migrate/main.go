// Command migrate runs schema operations for the backend. Production servers
// never migrate on startup, so deploys run `migrate up` first.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"tactac/internal/config"
	"tactac/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := gorm.Open(database.Dialector(cfg), database.GormConfig())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	return execute(db, strings.ToLower(strings.TrimSpace(flag.Arg(0))), os.Stdout)
}

func execute(db *gorm.DB, cmd string, out io.Writer) error {
	switch cmd {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(out, "automigrations applied")
	case "status":
		pending := 0
		for _, model := range database.PersistentModels() {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(model); err != nil {
				return fmt.Errorf("parse model: %w", err)
			}
			state := "present"
			if !db.Migrator().HasTable(model) {
				state = "missing"
				pending++
			}
			fmt.Fprintf(out, "%-10s %s\n", stmt.Schema.Table, state)
		}
		fmt.Fprintf(out, "pending=%d\n", pending)
	default:
		return usage()
	}
	return nil
}
