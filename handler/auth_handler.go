package handler

import (
	"encoding/json"
	"net/http"

	"jansunwai/service"
	"jansunwai/utils"
)

// AuthHandler handles officer login for the department dashboard endpoints.
type AuthHandler struct {
	departments *service.DepartmentService
	jwtSecret   []byte
	tokenTTL    int
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(departments *service.DepartmentService, jwtSecret string, tokenTTLHours int) *AuthHandler {
	return &AuthHandler{
		departments: departments,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTLHours,
	}
}

// Login handles POST /api/v1/auth/login with a department code and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DepartmentCode string `json:"department_code"`
		Password       string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if req.DepartmentCode == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Validation error", "department_code and password are required")
		return
	}

	dept := h.departments.ByCode(req.DepartmentCode)
	if dept == nil || dept.PasswordHash == "" {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
		return
	}
	if err := utils.CheckOfficerPassword(req.Password, dept.PasswordHash); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
		return
	}

	token, err := utils.GenerateOfficerJWT(dept.Name, dept.Code, h.jwtSecret, h.tokenTTL)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", "Could not issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"department": dept.Name,
		"code":       dept.Code,
		"expires_in_hours": h.tokenTTL,
	})
}
