// Package printer stores uploaded G-code files and dispatches them to
// networked 3D printers. Prusa machines expose a local PrusaLink HTTP API;
// Bambu machines are reached through a separate bridge service because their
// protocol is MQTT-based.
package printer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// MaxGcodeBytes caps uploads. G-code for large prints runs tens of
// megabytes; anything beyond this is almost certainly not a print file.
const MaxGcodeBytes = 64 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename strips path separators and shell-hostile characters so
// the name is safe to embed in a stored filename and a printer upload path.
func SanitizeFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, "._")
	if safe == "" {
		safe = "file.gcode"
	}
	if len(safe) > 160 {
		safe = safe[len(safe)-160:]
	}
	return safe
}

// HashSHA256 returns the lowercase hex digest of the payload.
func HashSHA256(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ValidateGcodePayload rejects uploads that are not plausible G-code: wrong
// extension, empty body, or oversized body.
func ValidateGcodePayload(fileName string, payload []byte) error {
	lower := strings.ToLower(fileName)
	if !strings.HasSuffix(lower, ".gcode") && !strings.HasSuffix(lower, ".gcode.3mf") {
		return fmt.Errorf("file %q is not a .gcode file", fileName)
	}
	if len(payload) == 0 {
		return fmt.Errorf("file %q is empty", fileName)
	}
	if len(payload) > MaxGcodeBytes {
		return fmt.Errorf("file %q exceeds the %d byte upload limit", fileName, MaxGcodeBytes)
	}
	return nil
}
