package migrations

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	Version int
	Name    string
	Run     func(tx *sqlx.Tx) error
}

// Migrations run in version order; each one executes inside a single
// transaction together with its schema_migrations record.
var all = []migration{
	{Version: 1, Name: "students_table", Run: migrateStudents},
	{Version: 2, Name: "staff_table", Run: migrateStaff},
	{Version: 3, Name: "admins_table", Run: migrateAdmins},
}

func Apply(db *sqlx.DB) error {
	if err := ensureTable(db); err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, mig := range all {
		if applied[mig.Version] {
			continue
		}
		if err := apply(db, mig); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(db *sqlx.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

func appliedVersions(db *sqlx.DB) (map[int]bool, error) {
	versions := []int{}
	if err := db.Select(&versions, `SELECT version FROM schema_migrations`); err != nil {
		return nil, err
	}
	applied := make(map[int]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}
	return applied, nil
}

func apply(db *sqlx.DB, mig migration) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	if err := mig.Run(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %d_%s: %w", mig.Version, mig.Name, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, mig.Version, mig.Name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %d_%s: %w", mig.Version, mig.Name, err)
	}
	return tx.Commit()
}

// Target column order doubles as the copy list during a legacy rebuild.
var studentColumns = []string{
	"id", "username", "password", "email", "first_name",
	"student_id", "department", "phone", "gender", "year", "created_at",
}

var staffColumns = []string{
	"id", "username", "password", "email", "first_name",
	"staff_id", "department", "phone", "qualification", "experience", "created_at",
}

func createStudentsSQL(table string) string {
	return `
CREATE TABLE ` + table + ` (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  password TEXT NOT NULL,
  email TEXT NOT NULL,
  first_name TEXT NOT NULL,
  student_id TEXT UNIQUE NOT NULL,
  department TEXT NOT NULL,
  phone TEXT NOT NULL,
  gender TEXT,
  year TEXT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`
}

func createStaffSQL(table string) string {
	return `
CREATE TABLE ` + table + ` (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  password TEXT NOT NULL,
  email TEXT NOT NULL,
  first_name TEXT NOT NULL,
  staff_id TEXT UNIQUE NOT NULL,
  department TEXT NOT NULL,
  phone TEXT NOT NULL,
  qualification TEXT,
  experience TEXT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`
}

func migrateStudents(tx *sqlx.Tx) error {
	exists, err := tableExists(tx, "students")
	if err != nil {
		return err
	}
	if !exists {
		_, err := tx.Exec(createStudentsSQL("students"))
		return err
	}
	columns, err := tableColumns(tx, "students")
	if err != nil {
		return err
	}
	// last_name marks the deprecated students shape.
	if !columns["last_name"] {
		return nil
	}
	return rebuildTable(tx, "students", createStudentsSQL("students_new"), studentColumns, columns)
}

func migrateStaff(tx *sqlx.Tx) error {
	exists, err := tableExists(tx, "staff")
	if err != nil {
		return err
	}
	if !exists {
		_, err := tx.Exec(createStaffSQL("staff"))
		return err
	}
	columns, err := tableColumns(tx, "staff")
	if err != nil {
		return err
	}
	// last_name or designation marks the deprecated staff shape.
	if !columns["last_name"] && !columns["designation"] {
		return nil
	}
	return rebuildTable(tx, "staff", createStaffSQL("staff_new"), staffColumns, columns)
}

func migrateAdmins(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS admins (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  password TEXT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

// rebuildTable recreates table with the target shape: copy every row into a
// freshly created <table>_new (missing target columns become NULL), drop the
// old table and rename. Runs inside the caller's transaction.
func rebuildTable(tx *sqlx.Tx, table, createNew string, target []string, existing map[string]bool) error {
	// Stores written before versioning could leave a _new table behind after a crash.
	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + table + `_new`); err != nil {
		return err
	}
	if _, err := tx.Exec(createNew); err != nil {
		return err
	}
	exprs := make([]string, len(target))
	for i, column := range target {
		if existing[column] {
			exprs[i] = column
		} else {
			exprs[i] = "NULL"
		}
	}
	copyStmt := fmt.Sprintf(
		`INSERT INTO %s_new (%s) SELECT %s FROM %s`,
		table, strings.Join(target, ", "), strings.Join(exprs, ", "), table,
	)
	if _, err := tx.Exec(copyStmt); err != nil {
		return err
	}
	if _, err := tx.Exec(`DROP TABLE ` + table); err != nil {
		return err
	}
	_, err := tx.Exec(fmt.Sprintf(`ALTER TABLE %s_new RENAME TO %s`, table, table))
	return err
}

func tableExists(tx *sqlx.Tx, name string) (bool, error) {
	var exists bool
	err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`, name)
	return exists, err
}

func tableColumns(tx *sqlx.Tx, name string) (map[string]bool, error) {
	rows := []struct {
		CID          int     `db:"cid"`
		Name         string  `db:"name"`
		Type         string  `db:"type"`
		NotNull      int     `db:"notnull"`
		DefaultValue *string `db:"dflt_value"`
		PK           int     `db:"pk"`
	}{}
	if err := tx.Select(&rows, fmt.Sprintf(`PRAGMA table_info(%s)`, name)); err != nil {
		return nil, err
	}
	columns := make(map[string]bool, len(rows))
	for _, row := range rows {
		columns[row.Name] = true
	}
	return columns, nil
}
