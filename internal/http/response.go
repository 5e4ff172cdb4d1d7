package httpapi

import (
	"encoding/json"
	"net/http"
)

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteMessage(w http.ResponseWriter, status int, success bool, message string) {
	WriteJSON(w, status, MessageResponse{Success: success, Message: message})
}
