package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	processCodePrefix   = "REC"
	candidateCodePrefix = "CAN"
	contractCodePrefix  = "CTR"
)

// generateCode builds a human-facing reference: prefix, UTC timestamp and a
// random suffix.
func generateCode(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102150405"), suffix)
}
