package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	appanalysis "github.com/dkrysak/chemviz/internal/application/analysis"
	appusers "github.com/dkrysak/chemviz/internal/application/users"
	domanalysis "github.com/dkrysak/chemviz/internal/domain/analysis"
	"github.com/dkrysak/chemviz/internal/middleware"
)

// POST /signup/
func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) error {
	var cmd appusers.SignupCommand
	if err := json.NewDecoder(req.Body).Decode(&cmd); err != nil {
		return fmt.Errorf("%w: invalid request body", domanalysis.ErrBadInput)
	}
	if err := r.usersSvc.Signup(req.Context(), cmd); err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return nil
}

// POST /login/
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domanalysis.ErrBadInput)
	}

	token, u, err := r.usersSvc.Login(req.Context(), body.Username, body.Password)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"username":   u.Username,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"email":      u.Email,
			"role":       u.Role,
			"company":    u.Company,
		},
	})
	return nil
}

// POST /logout/
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	u, _ := middleware.UserFromContext(req.Context())
	if err := r.usersSvc.Logout(req.Context(), u.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// PATCH /update/
func (r *Router) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	u, _ := middleware.UserFromContext(req.Context())

	var body struct {
		CurrentPassword string  `json:"currentPassword"`
		FirstName       *string `json:"first_name"`
		LastName        *string `json:"last_name"`
		Email           *string `json:"email"`
		Role            *string `json:"role"`
		Company         *string `json:"company"`
		Password        *string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domanalysis.ErrBadInput)
	}

	updated, err := r.usersSvc.UpdateProfile(req.Context(), u.ID, appusers.UpdateCommand{
		CurrentPassword: body.CurrentPassword,
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Email:           body.Email,
		Role:            body.Role,
		Company:         body.Company,
		NewPassword:     body.Password,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"username":   updated.Username,
		"first_name": updated.FirstName,
		"last_name":  updated.LastName,
		"email":      updated.Email,
		"role":       updated.Role,
		"company":    updated.Company,
	})
	return nil
}

// POST /upload/ accepts a multipart form with the file field "file".
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	u, _ := middleware.UserFromContext(req.Context())

	file, _, err := req.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return nil
	}
	defer file.Close()

	rec, err := r.analysisSvc.AnalyzeUpload(req.Context(), u.ID, file)
	if err != nil {
		return err
	}
	middleware.IncrementUploads()

	writeJSON(w, http.StatusOK, map[string]any{
		"total_count":  rec.Data.TotalCount,
		"averages":     rec.Data.Averages,
		"distribution": rec.Data.Distribution,
		"created_at":   rec.CreatedAt.Format(time.RFC3339),
		"message":      "Analysis Complete",
	})
	return nil
}

// GET /record/
func (r *Router) handleRecords(w http.ResponseWriter, req *http.Request) error {
	u, _ := middleware.UserFromContext(req.Context())

	recs, err := r.analysisSvc.History(req.Context(), u.ID)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"resultData": nil})
		return nil
	}

	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		items = append(items, map[string]any{
			"total_count":  rec.Data.TotalCount,
			"averages":     rec.Data.Averages,
			"distribution": rec.Data.Distribution,
			"created_at":   rec.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"resultData": items})
	return nil
}

// POST /download/ returns the encrypted PDF as an attachment.
func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) error {
	u, _ := middleware.UserFromContext(req.Context())

	var body struct {
		ChartImage string         `json:"chartImage"`
		Stats      map[string]any `json:"stats"`
		CreatedAt  string         `json:"created_at"`
		// Optional full result; feeds the AI summary when present.
		TotalCount   int                      `json:"total_count"`
		Averages     domanalysis.Averages     `json:"averages"`
		Distribution domanalysis.Distribution `json:"distribution"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domanalysis.ErrBadInput)
	}

	pdf, filename, err := r.analysisSvc.BuildReport(req.Context(), appanalysis.ReportCommand{
		ChartImage: body.ChartImage,
		Stats:      body.Stats,
		CreatedAt:  body.CreatedAt,
		Recipient:  u.Email,
		Owner:      u.Username,
		Result: domanalysis.Result{
			TotalCount:   body.TotalCount,
			Averages:     body.Averages,
			Distribution: body.Distribution,
		},
	})
	if err != nil {
		middleware.IncrementReportsFailed()
		return err
	}
	middleware.IncrementReports()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(pdf)
	return err
}
