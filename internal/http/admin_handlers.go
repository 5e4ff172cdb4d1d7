package httpapi

import (
	"net/http"

	"quizhub-backend-go/internal/services"
)

type studentListResponse struct {
	Success  bool                      `json:"success"`
	Students []services.StudentSummary `json:"students"`
}

type staffListResponse struct {
	Success bool                    `json:"success"`
	Staff   []services.StaffSummary `json:"staff"`
}

func (s *Server) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := services.ListStudents(s.DB)
	if err != nil {
		WriteMessage(w, http.StatusInternalServerError, false, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, studentListResponse{Success: true, Students: students})
}

func (s *Server) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := services.ListStaff(s.DB)
	if err != nil {
		WriteMessage(w, http.StatusInternalServerError, false, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, staffListResponse{Success: true, Staff: staff})
}
