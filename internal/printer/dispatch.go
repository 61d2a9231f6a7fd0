package printer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

// ErrMissingAuthToken is returned when a Prusa printer is configured without
// the PrusaLink API key it needs for uploads.
var ErrMissingAuthToken = errors.New("prusa printer requires an auth token")

// ErrNoBridgeConfigured is returned when a Bambu dispatch is attempted but no
// bridge service URL was configured.
var ErrNoBridgeConfigured = errors.New("bambu dispatch requires a bridge service url")

// DispatchRequest carries one validated G-code payload toward a printer.
type DispatchRequest struct {
	Printer  models.Printer
	FileName string
	Payload  []byte
}

// Dispatcher pushes G-code to printers over HTTP.
type Dispatcher struct {
	http      *resty.Client
	bridgeURL string
}

// NewDispatcher builds a dispatcher. bridgeURL may be empty when no Bambu
// printers are deployed.
func NewDispatcher(bridgeURL string) *Dispatcher {
	client := resty.New().SetTimeout(60 * time.Second)
	return &Dispatcher{http: client, bridgeURL: bridgeURL}
}

// Dispatch routes the request by printer type and returns a human-readable
// summary of what happened on success.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) (string, error) {
	switch req.Printer.Type {
	case models.PrinterTypePrusa:
		return d.dispatchPrusa(ctx, req)
	case models.PrinterTypeBambu:
		return d.dispatchBambu(ctx, req)
	default:
		return "", fmt.Errorf("unknown printer type %q", req.Printer.Type)
	}
}

// dispatchPrusa talks to PrusaLink directly: upload the file to local
// storage, then issue a start command for it.
func (d *Dispatcher) dispatchPrusa(ctx context.Context, req DispatchRequest) (string, error) {
	if req.Printer.AuthToken == nil || *req.Printer.AuthToken == "" {
		return "", ErrMissingAuthToken
	}
	apiKey := *req.Printer.AuthToken

	uploadRes, err := d.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetFileReader("file", req.FileName, bytes.NewReader(req.Payload)).
		Post(fmt.Sprintf("http://%s/api/v1/files/local", req.Printer.IPAddress))
	if err != nil {
		return "", fmt.Errorf("prusa upload: %w", err)
	}
	if uploadRes.IsError() {
		return "", fmt.Errorf("prusa upload failed (%d): %s", uploadRes.StatusCode(), uploadRes.String())
	}

	startRes, err := d.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"command": "start",
			"path":    "/local/" + req.FileName,
		}).
		Post(fmt.Sprintf("http://%s/api/v1/job", req.Printer.IPAddress))
	if err != nil {
		return "", fmt.Errorf("prusa start: %w", err)
	}
	if startRes.IsError() {
		return "", fmt.Errorf("prusa start failed (%d): %s", startRes.StatusCode(), startRes.String())
	}

	return "Uploaded and start command sent to Prusa printer.", nil
}

// dispatchBambu hands the file to the bridge service, which owns the MQTT
// session with the printer.
func (d *Dispatcher) dispatchBambu(ctx context.Context, req DispatchRequest) (string, error) {
	if d.bridgeURL == "" {
		return "", ErrNoBridgeConfigured
	}

	serial := ""
	if req.Printer.SerialNumber != nil {
		serial = *req.Printer.SerialNumber
	}

	res, err := d.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"ipAddress":         req.Printer.IPAddress,
			"serialNumber":      serial,
			"fileName":          req.FileName,
			"fileContentBase64": base64.StdEncoding.EncodeToString(req.Payload),
		}).
		Post(d.bridgeURL)
	if err != nil {
		return "", fmt.Errorf("bambu bridge: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("bambu bridge dispatch failed (%d): %s", res.StatusCode(), res.String())
	}

	return "File handed off to Bambu bridge service.", nil
}
