package handlers

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
	"github.com/CTroeung1/MSM-inventory-system/internal/printer"
)

//
// --- Printer & Print Job Handlers ---
//

func (h *Handlers) GetPrinters(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, name, type, ip_address, auth_token, serial_number, created_by_user_id, created_at
		 FROM printers ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	printers := []models.Printer{}
	for rows.Next() {
		var p models.Printer
		var authToken, serial sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.IPAddress, &authToken,
			&serial, &p.CreatedByUserID, &p.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if authToken.Valid {
			p.AuthToken = &authToken.String
		}
		if serial.Valid {
			p.SerialNumber = &serial.String
		}
		printers = append(printers, p)
	}

	c.JSON(http.StatusOK, gin.H{"printers": printers})
}

type CreatePrinterInput struct {
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required,oneof=PRUSA BAMBU"`
	IPAddress    string  `json:"ipAddress" binding:"required,ip"`
	AuthToken    *string `json:"authToken"`
	SerialNumber *string `json:"serialNumber"`
}

func (h *Handlers) CreatePrinter(c *gin.Context) {
	var input CreatePrinterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := models.Printer{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Type:            input.Type,
		IPAddress:       input.IPAddress,
		AuthToken:       input.AuthToken,
		SerialNumber:    input.SerialNumber,
		CreatedByUserID: currentUserID(c),
		CreatedAt:       time.Now().UTC(),
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO printers (id, name, type, ip_address, auth_token, serial_number, created_by_user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Type, p.IPAddress, p.AuthToken, p.SerialNumber, p.CreatedByUserID, p.CreatedAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(err.Error(), "Duplicate entry") {
			c.JSON(http.StatusConflict, gin.H{"error": "A printer with this IP address already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create printer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"printer": p})
}

// ListMyPrintJobs returns the caller's hundred most recent print jobs with
// their printers attached.
func (h *Handlers) ListMyPrintJobs(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT j.id, j.user_id, j.printer_id, j.original_filename, j.stored_filename,
		        j.file_hash_sha256, j.file_size_bytes, j.status, j.dispatch_response,
		        j.dispatch_error, j.created_at, p.name, p.type, p.ip_address
		 FROM gcode_print_jobs j JOIN printers p ON p.id = j.printer_id
		 WHERE j.user_id = ? ORDER BY j.created_at DESC LIMIT 100`, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	jobs := []models.GcodePrintJob{}
	for rows.Next() {
		var j models.GcodePrintJob
		var response, dispatchErr sql.NullString
		var p models.Printer
		if err := rows.Scan(&j.ID, &j.UserID, &j.PrinterID, &j.OriginalFilename,
			&j.StoredFilename, &j.FileHashSHA256, &j.FileSizeBytes, &j.Status,
			&response, &dispatchErr, &j.CreatedAt, &p.Name, &p.Type, &p.IPAddress); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if response.Valid {
			j.DispatchResponse = &response.String
		}
		if dispatchErr.Valid {
			j.DispatchError = &dispatchErr.String
		}
		p.ID = j.PrinterID
		j.Printer = &p
		jobs = append(jobs, j)
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

type UploadAndPrintInput struct {
	PrinterIPAddress  string `json:"printerIpAddress" binding:"required,ip"`
	FileName          string `json:"fileName" binding:"required"`
	FileContentBase64 string `json:"fileContentBase64" binding:"required"`
}

// UploadAndPrint stores a G-code payload, records a print job, and dispatches
// it to the printer at the given address. Dispatch failure is recorded on the
// job rather than losing the upload.
func (h *Handlers) UploadAndPrint(c *gin.Context) {
	var input UploadAndPrintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var p models.Printer
	var authToken, serial sql.NullString
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT id, name, type, ip_address, auth_token, serial_number FROM printers WHERE ip_address = ?`,
		input.PrinterIPAddress,
	).Scan(&p.ID, &p.Name, &p.Type, &p.IPAddress, &authToken, &serial)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "No configured printer found for that IP address"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if authToken.Valid {
		p.AuthToken = &authToken.String
	}
	if serial.Valid {
		p.SerialNumber = &serial.String
	}

	payload, err := base64.StdEncoding.DecodeString(input.FileContentBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileContentBase64 is not valid base64"})
		return
	}
	if err := printer.ValidateGcodePayload(input.FileName, payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Store the file before anything network-dependent can fail.
	sha := printer.HashSHA256(payload)
	safeName := printer.SanitizeFilename(input.FileName)
	storedName := fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), sha[:12], safeName)
	if err := os.MkdirAll(h.Cfg.Print.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	if err := os.WriteFile(filepath.Join(h.Cfg.Print.UploadDir, storedName), payload, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	job := models.GcodePrintJob{
		ID:               uuid.NewString(),
		UserID:           currentUserID(c),
		PrinterID:        p.ID,
		OriginalFilename: input.FileName,
		StoredFilename:   storedName,
		FileHashSHA256:   sha,
		FileSizeBytes:    int64(len(payload)),
		Status:           models.PrintJobStatusStored,
		CreatedAt:        time.Now().UTC(),
	}
	_, err = h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO gcode_print_jobs
		 (id, user_id, printer_id, original_filename, stored_filename, file_hash_sha256,
		  file_size_bytes, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.UserID, job.PrinterID, job.OriginalFilename, job.StoredFilename,
		job.FileHashSHA256, job.FileSizeBytes, job.Status, job.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record print job"})
		return
	}

	details, err := h.Dispatcher.Dispatch(c.Request.Context(), printer.DispatchRequest{
		Printer:  p,
		FileName: safeName,
		Payload:  payload,
	})
	if err != nil {
		message := err.Error()
		job.Status = models.PrintJobStatusDispatchFailed
		job.DispatchError = &message
		_, _ = h.DB.ExecContext(c.Request.Context(),
			`UPDATE gcode_print_jobs SET status = ?, dispatch_error = ? WHERE id = ?`,
			job.Status, message, job.ID)
		h.Log.Warn("print dispatch failed", zap.String("jobId", job.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dispatch failed: " + message, "job": job})
		return
	}

	job.Status = models.PrintJobStatusDispatched
	job.DispatchResponse = &details
	_, err = h.DB.ExecContext(c.Request.Context(),
		`UPDATE gcode_print_jobs SET status = ?, dispatch_response = ? WHERE id = ?`,
		job.Status, details, job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update print job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// SweepStalePrintJobs marks jobs stuck in STORED for over an hour as failed.
// Run from the cron scheduler.
func (h *Handlers) SweepStalePrintJobs() {
	cutoff := time.Now().UTC().Add(-time.Hour)
	res, err := h.DB.Exec(
		`UPDATE gcode_print_jobs SET status = ?, dispatch_error = 'dispatch never completed'
		 WHERE status = ? AND created_at < ?`,
		models.PrintJobStatusDispatchFailed, models.PrintJobStatusStored, cutoff)
	if err != nil {
		h.Log.Error("sweeping stale print jobs", zap.Error(err))
		return
	}
	if swept, _ := res.RowsAffected(); swept > 0 {
		h.Log.Info("swept stale print jobs", zap.Int64("count", swept))
	}
}
