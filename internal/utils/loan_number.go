package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

var noPinjamanPattern = regexp.MustCompile(`^RS\d{8}-\d{4}$`)

// GenerateNoPinjaman builds a human-readable loan number, e.g.
// RS20260827-0421. Uniqueness is expected but not enforced here; at
// cooperative scale the collision probability of the 4-digit suffix
// within one day is accepted.
func GenerateNoPinjaman(t time.Time) string {
	return fmt.Sprintf("RS%s-%04d", t.Format("20060102"), rand.Intn(10000))
}

// IsValidNoPinjaman reports whether s matches the RS<yyyymmdd>-<nnnn>
// format. Used by the bulk repayment import to reject malformed rows
// before touching the database.
func IsValidNoPinjaman(s string) bool {
	return noPinjamanPattern.MatchString(s)
}
