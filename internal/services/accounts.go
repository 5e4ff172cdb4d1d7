package services

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"quizhub-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type StudentInput struct {
	Username   string
	Password   string
	Email      string
	FirstName  string
	StudentID  string
	Department string
	Phone      string
	Gender     *string
	Year       *string
}

type StaffInput struct {
	Username      string
	Password      string
	Email         string
	FirstName     string
	StaffID       string
	Department    string
	Phone         string
	Qualification *string
	Experience    *string
}

// PublicUser is the role-tagged view of an account returned after a
// successful login. It never carries the password hash.
type PublicUser struct {
	ID            int64   `json:"id"`
	FirstName     string  `json:"first_name"`
	Email         string  `json:"email"`
	StudentID     string  `json:"student_id,omitempty"`
	StaffID       string  `json:"staff_id,omitempty"`
	Department    string  `json:"department,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	Year          *string `json:"year,omitempty"`
	Qualification *string `json:"qualification,omitempty"`
	Experience    *string `json:"experience,omitempty"`
	Role          string  `json:"role"`
}

type StudentSummary struct {
	ID         int64      `db:"id" json:"id"`
	Username   string     `db:"username" json:"username"`
	Email      string     `db:"email" json:"email"`
	FirstName  string     `db:"first_name" json:"first_name"`
	StudentID  string     `db:"student_id" json:"student_id"`
	Department string     `db:"department" json:"department"`
	Phone      string     `db:"phone" json:"phone"`
	Gender     *string    `db:"gender" json:"gender"`
	Year       *string    `db:"year" json:"year"`
	CreatedAt  *time.Time `db:"created_at" json:"created_at"`
}

type StaffSummary struct {
	ID            int64      `db:"id" json:"id"`
	Username      string     `db:"username" json:"username"`
	Email         string     `db:"email" json:"email"`
	FirstName     string     `db:"first_name" json:"first_name"`
	StaffID       string     `db:"staff_id" json:"staff_id"`
	Department    string     `db:"department" json:"department"`
	Phone         string     `db:"phone" json:"phone"`
	Qualification *string    `db:"qualification" json:"qualification"`
	Experience    *string    `db:"experience" json:"experience"`
	CreatedAt     *time.Time `db:"created_at" json:"created_at"`
}

// RegisterStudent inserts a new student with a freshly hashed password.
// Returns false without an error when a uniqueness constraint is violated
// (duplicate username or student id); callers cannot tell which.
func RegisterStudent(db *sqlx.DB, in StudentInput) (bool, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return false, err
	}
	_, err = db.Exec(`
INSERT INTO students (username, password, email, first_name, student_id, department, phone, gender, year)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, in.Username, hash, in.Email, in.FirstName, in.StudentID, in.Department, in.Phone, in.Gender, in.Year)
	if err != nil {
		if isConstraintViolation(err) {
			log.Printf("student registration conflict: %v", err)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func RegisterStaff(db *sqlx.DB, in StaffInput) (bool, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return false, err
	}
	_, err = db.Exec(`
INSERT INTO staff (username, password, email, first_name, staff_id, department, phone, qualification, experience)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, in.Username, hash, in.Email, in.FirstName, in.StaffID, in.Department, in.Phone, in.Qualification, in.Experience)
	if err != nil {
		if isConstraintViolation(err) {
			log.Printf("staff registration conflict: %v", err)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func RegisterAdmin(db *sqlx.DB, username, password string) (bool, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	_, err = db.Exec(`INSERT INTO admins (username, password) VALUES (?, ?)`, username, hash)
	if err != nil {
		if isConstraintViolation(err) {
			log.Printf("admin registration conflict: %v", err)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// VerifyStudent returns the public view of the student on a credential match.
// An unknown username and a wrong password are indistinguishable: both yield
// (nil, nil).
func VerifyStudent(db *sqlx.DB, username, password string) (*PublicUser, error) {
	var row models.Student
	err := db.Get(&row, `
SELECT id, username, password, email, first_name, student_id, department, phone, gender, year, created_at
FROM students
WHERE username = ?
`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, row.Password) {
		return nil, nil
	}
	return &PublicUser{
		ID:         row.ID,
		FirstName:  row.FirstName,
		Email:      row.Email,
		StudentID:  row.StudentID,
		Department: row.Department,
		Phone:      row.Phone,
		Gender:     row.Gender,
		Year:       row.Year,
		Role:       "student",
	}, nil
}

func VerifyStaff(db *sqlx.DB, username, password string) (*PublicUser, error) {
	var row models.Staff
	err := db.Get(&row, `
SELECT id, username, password, email, first_name, staff_id, department, phone, qualification, experience, created_at
FROM staff
WHERE username = ?
`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, row.Password) {
		return nil, nil
	}
	return &PublicUser{
		ID:            row.ID,
		FirstName:     row.FirstName,
		Email:         row.Email,
		StaffID:       row.StaffID,
		Department:    row.Department,
		Phone:         row.Phone,
		Qualification: row.Qualification,
		Experience:    row.Experience,
		Role:          "staff",
	}, nil
}

func VerifyAdmin(db *sqlx.DB, username, password string) (*PublicUser, error) {
	var row models.Admin
	err := db.Get(&row, `SELECT id, username, password, created_at FROM admins WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, row.Password) {
		return nil, nil
	}
	return &PublicUser{
		ID:        row.ID,
		FirstName: "Admin",
		Email:     row.Username,
		Role:      "admin",
	}, nil
}

// ListStudents returns every student, newest first, without password hashes.
func ListStudents(db *sqlx.DB) ([]StudentSummary, error) {
	students := []StudentSummary{}
	err := db.Select(&students, `
SELECT id, username, email, first_name, student_id, department, phone, gender, year, created_at
FROM students
ORDER BY created_at DESC, id DESC
`)
	return students, err
}

func ListStaff(db *sqlx.DB) ([]StaffSummary, error) {
	staff := []StaffSummary{}
	err := db.Select(&staff, `
SELECT id, username, email, first_name, staff_id, department, phone, qualification, experience, created_at
FROM staff
ORDER BY created_at DESC, id DESC
`)
	return staff, err
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
