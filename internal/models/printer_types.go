package models

import "time"

// Printer types supported by the dispatch layer.
const (
	PrinterTypePrusa = "PRUSA"
	PrinterTypeBambu = "BAMBU"
)

// Print job dispatch statuses.
const (
	PrintJobStatusStored         = "STORED"
	PrintJobStatusDispatched     = "DISPATCHED"
	PrintJobStatusDispatchFailed = "DISPATCH_FAILED"
)

// Printer is the model for the 'printers' table: a configured network
// printer endpoint. IP addresses are unique across the fleet.
type Printer struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Type            string    `json:"type" db:"type"`
	IPAddress       string    `json:"ipAddress" db:"ip_address"`
	AuthToken       *string   `json:"-" db:"auth_token"`
	SerialNumber    *string   `json:"serialNumber,omitempty" db:"serial_number"`
	CreatedByUserID string    `json:"createdByUserId" db:"created_by_user_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// GcodePrintJob is the model for the 'gcode_print_jobs' table: one record per
// dispatched G-code print attempt, including the stored file's content hash.
type GcodePrintJob struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"userId" db:"user_id"`
	PrinterID        string    `json:"printerId" db:"printer_id"`
	OriginalFilename string    `json:"originalFilename" db:"original_filename"`
	StoredFilename   string    `json:"storedFilename" db:"stored_filename"`
	FileHashSHA256   string    `json:"fileHashSha256" db:"file_hash_sha256"`
	FileSizeBytes    int64     `json:"fileSizeBytes" db:"file_size_bytes"`
	Status           string    `json:"status" db:"status"`
	DispatchResponse *string   `json:"dispatchResponse,omitempty" db:"dispatch_response"`
	DispatchError    *string   `json:"dispatchError,omitempty" db:"dispatch_error"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`

	// Loaded relations (optional)
	Printer *Printer `json:"printer,omitempty" db:"-"`
}
