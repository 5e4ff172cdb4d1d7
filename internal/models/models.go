package models

import "time"

type Student struct {
	ID         int64      `db:"id"`
	Username   string     `db:"username"`
	Password   string     `db:"password"`
	Email      string     `db:"email"`
	FirstName  string     `db:"first_name"`
	StudentID  string     `db:"student_id"`
	Department string     `db:"department"`
	Phone      string     `db:"phone"`
	Gender     *string    `db:"gender"`
	Year       *string    `db:"year"`
	CreatedAt  *time.Time `db:"created_at"`
}

type Staff struct {
	ID            int64      `db:"id"`
	Username      string     `db:"username"`
	Password      string     `db:"password"`
	Email         string     `db:"email"`
	FirstName     string     `db:"first_name"`
	StaffID       string     `db:"staff_id"`
	Department    string     `db:"department"`
	Phone         string     `db:"phone"`
	Qualification *string    `db:"qualification"`
	Experience    *string    `db:"experience"`
	CreatedAt     *time.Time `db:"created_at"`
}

type Admin struct {
	ID        int64      `db:"id"`
	Username  string     `db:"username"`
	Password  string     `db:"password"`
	CreatedAt *time.Time `db:"created_at"`
}
