package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TradeRefPrefix       = "TRD"
	TransactionRefPrefix = "WTX"
)

// GenerateReference builds a globally unique reference such as
// "TRD-9F1C2B7A8D3E4F50-1735689600". The random component comes from a v4 UUID
// so concurrent writers never need to coordinate.
func GenerateReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s-%d", prefix, id[:16], time.Now().Unix())
}
