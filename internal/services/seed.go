package services

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// EnsureBootstrapAdmin guarantees one admin row for the configured bootstrap
// username. An existing row is left alone, so the password is never reset.
func EnsureBootstrapAdmin(db *sqlx.DB, username, password string) error {
	var count int
	if err := db.Get(&count, `SELECT count(*) FROM admins WHERE username = ?`, username); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`INSERT INTO admins (username, password) VALUES (?, ?)`, username, hash); err != nil {
		return err
	}
	log.Printf("seeded bootstrap admin %s", username)
	return nil
}
