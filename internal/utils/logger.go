package utils

import (
	"fmt"
	"log"
	"strings"
)

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload (aadhar numbers, photos); kv should be summarized.
func LogEvent(requestID, module, action string, kv ...any) {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	log.Printf("[%s] action=%s request_id=%s%s", strings.ToUpper(module), action, strings.TrimSpace(requestID), b.String())
}
