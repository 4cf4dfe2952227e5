package test

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"accountapp/internal/adapter/database/sqlite"
)

// InitTestDB returns a private in-memory database with the schema applied.
// The shared cache keeps every pooled connection on the same database.
func InitTestDB() *sqlite.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())

	db, err := sql.Open("sqlite3", dsn)

	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxIdleConns(4)

	if err := sqlite.RunMigrations(db); err != nil {
		log.Fatal(err)
	}

	return sqlite.Wrap(db)
}

// CleanDB empties the users table between tests sharing one database.
func CleanDB(db *sqlite.DB) error {
	if _, err := db.Exec("DELETE FROM users"); err != nil {
		return err
	}

	_, err := db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")

	return err
}
