package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"quizhub-backend-go/internal/services"
)

// decodeFields accepts either a JSON object or a form-encoded body and
// flattens it into named string fields, the way the frontend submits both.
func decodeFields(r *http.Request) (map[string]string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		defer r.Body.Close()
		raw := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, err
		}
		fields := make(map[string]string, len(raw))
		for key, value := range raw {
			switch v := value.(type) {
			case string:
				fields[key] = v
			case float64:
				fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				fields[key] = strconv.FormatBool(v)
			}
		}
		return fields, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}
	return fields, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func firstMissing(fields map[string]string, required ...string) string {
	for _, key := range required {
		if strings.TrimSpace(fields[key]) == "" {
			return key
		}
	}
	return ""
}

func (s *Server) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		WriteMessage(w, http.StatusBadRequest, false, "Invalid payload")
		return
	}
	password := fields["studentPassword"]
	confirm := fields["studentConfirmPassword"]
	if password != confirm {
		WriteMessage(w, http.StatusBadRequest, false, "Password and confirm password do not match")
		return
	}
	if missing := firstMissing(fields, "studentName", "studentId", "studentPhone", "studentDept", "studentPassword"); missing != "" {
		WriteMessage(w, http.StatusBadRequest, false, missing+" is required")
		return
	}
	email := strings.TrimSpace(fields["studentEmail"])
	studentID := strings.TrimSpace(fields["studentId"])
	username := email
	if username == "" {
		username = studentID
	}
	ok, err := services.RegisterStudent(s.DB, services.StudentInput{
		Username:   username,
		Password:   password,
		Email:      email,
		FirstName:  strings.TrimSpace(fields["studentName"]),
		StudentID:  studentID,
		Department: strings.TrimSpace(fields["studentDept"]),
		Phone:      strings.TrimSpace(fields["studentPhone"]),
		Gender:     optional(strings.TrimSpace(fields["studentGender"])),
		Year:       optional(strings.TrimSpace(fields["studentYear"])),
	})
	if err != nil {
		WriteMessage(w, http.StatusInternalServerError, false, "Internal server error")
		return
	}
	if !ok {
		WriteMessage(w, http.StatusBadRequest, false, "Student registration failed (username or student ID may already exist)")
		return
	}
	WriteMessage(w, http.StatusOK, true, "Student registered successfully")
}

func (s *Server) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		WriteMessage(w, http.StatusBadRequest, false, "Invalid payload")
		return
	}
	password := fields["staffPassword"]
	confirm := fields["staffConfirmPassword"]
	if password != confirm {
		WriteMessage(w, http.StatusBadRequest, false, "Password and confirm password do not match")
		return
	}
	if missing := firstMissing(fields, "staffName", "staffId", "staffPhone", "staffDept", "staffPassword"); missing != "" {
		WriteMessage(w, http.StatusBadRequest, false, missing+" is required")
		return
	}
	email := strings.TrimSpace(fields["staffEmail"])
	staffID := strings.TrimSpace(fields["staffId"])
	username := email
	if username == "" {
		username = staffID
	}
	ok, err := services.RegisterStaff(s.DB, services.StaffInput{
		Username:      username,
		Password:      password,
		Email:         email,
		FirstName:     strings.TrimSpace(fields["staffName"]),
		StaffID:       staffID,
		Department:    strings.TrimSpace(fields["staffDept"]),
		Phone:         strings.TrimSpace(fields["staffPhone"]),
		Qualification: optional(strings.TrimSpace(fields["staffQualification"])),
		Experience:    optional(strings.TrimSpace(fields["staffExperience"])),
	})
	if err != nil {
		WriteMessage(w, http.StatusInternalServerError, false, "Internal server error")
		return
	}
	if !ok {
		WriteMessage(w, http.StatusBadRequest, false, "Staff registration failed (username or staff ID may already exist)")
		return
	}
	WriteMessage(w, http.StatusOK, true, "Staff registered successfully")
}

type loginResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	User    *services.PublicUser `json:"user"`
}

type verifyFunc func(username, password string) (*services.PublicUser, error)

// handleLogin keeps the failure path uniform: unknown username and wrong
// password produce the same 401 body.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, role string, usernameField, passwordField string, verify verifyFunc) {
	fields, err := decodeFields(r)
	if err != nil {
		WriteMessage(w, http.StatusBadRequest, false, "Invalid payload")
		return
	}
	username := strings.TrimSpace(fields[usernameField])
	password := fields[passwordField]
	user, err := verify(username, password)
	if err != nil {
		WriteMessage(w, http.StatusInternalServerError, false, "Internal server error")
		return
	}
	if user == nil {
		WriteMessage(w, http.StatusUnauthorized, false, role+" login failed")
		return
	}
	WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: role + " login successful",
		User:    user,
	})
}

func (s *Server) LoginStudent(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, "Student", "studentLoginEmail", "studentLoginPassword", func(username, password string) (*services.PublicUser, error) {
		return services.VerifyStudent(s.DB, username, password)
	})
}

func (s *Server) LoginStaff(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, "Staff", "staffLoginEmail", "staffLoginPassword", func(username, password string) (*services.PublicUser, error) {
		return services.VerifyStaff(s.DB, username, password)
	})
}

func (s *Server) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, "Admin", "adminLoginEmail", "adminLoginPassword", func(username, password string) (*services.PublicUser, error) {
		return services.VerifyAdmin(s.DB, username, password)
	})
}
