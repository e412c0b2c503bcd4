package booking

import (
	"crypto/rand"
	"fmt"
	"time"
)

// referenceChars excludes characters that read ambiguously (0/O, 1/I/L).
const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBookingReference produces a human-readable reference in the form
// BK-YYYYMMDD-XXXXX, e.g. BK-20241027-A3F9K.
func GenerateBookingReference() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively unreachable; fall back to a
		// timestamp-derived suffix rather than panic.
		for i := range buf {
			buf[i] = byte(time.Now().UnixNano() >> (i * 8))
		}
	}
	code := make([]byte, len(buf))
	for i, b := range buf {
		code[i] = referenceChars[int(b)%len(referenceChars)]
	}
	return fmt.Sprintf("BK-%s-%s", time.Now().UTC().Format("20060102"), code)
}
