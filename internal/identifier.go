package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateIdentifier creates a unique snapshot identifier in the form
// var_snapshot_<unix-millis>_<8 hex chars>. Callers may supply their own
// identifier instead; this is only the fallback.
func GenerateIdentifier() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("var_snapshot_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
