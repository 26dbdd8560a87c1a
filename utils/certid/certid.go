package certid

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	certPrefix  = "CERT"
	batchPrefix = "BATCH"
)

var idPattern = regexp.MustCompile(`^(CERT|BATCH)-\d{8}-[0-9A-F]{8}$`)

// New returns a CERT-<YYYYMMDD>-<8HEX> certificate ID.
// The date portion is UTC; the suffix is drawn from a random UUID.
func New() string {
	return mint(certPrefix)
}

// NewBatch returns a BATCH-<YYYYMMDD>-<8HEX> batch job ID.
func NewBatch() string {
	return mint(batchPrefix)
}

func mint(prefix string) string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, date, suffix)
}

// IsValid reports whether value matches the generated ID shape. Caller
// supplied IDs are allowed to deviate from it, so this is informational only.
func IsValid(value string) bool {
	return idPattern.MatchString(strings.TrimSpace(value))
}
