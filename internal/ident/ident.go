// Package ident generates entity identifiers, timestamps and container QR codes.
package ident

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// QRPrefix marks a scanned string as a stokosor container code.
const QRPrefix = "STOKOSOR:"

// TimeLayout is a fixed-width ISO-8601 UTC layout, so timestamps sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// NewID returns a random (version 4) UUID in canonical hyphenated form.
func NewID() string {
	return uuid.NewString()
}

// Now returns the current UTC time formatted with TimeLayout.
func Now() string {
	return Format(time.Now())
}

// Format renders t in UTC with TimeLayout.
func Format(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// QRCode returns the QR payload that identifies the container with the given id.
func QRCode(containerID string) string {
	return QRPrefix + containerID
}

// ParseQRCode extracts the container id from a scanned payload.
func ParseQRCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	id, ok := strings.CutPrefix(code, QRPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
