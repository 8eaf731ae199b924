package common

import (
	"github.com/google/uuid"
)

// NewScanID generates a unique scan ID with the "scan_" prefix
// Format: scan_<uuid>
func NewScanID() string {
	return "scan_" + uuid.New().String()
}

// NewJournalID generates a unique journal entry ID with the "jrnl_" prefix
// Format: jrnl_<uuid>
func NewJournalID() string {
	return "jrnl_" + uuid.New().String()
}
