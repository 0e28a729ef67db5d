package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNoPinjaman(t *testing.T) {
	tanggal := time.Date(2026, 1, 5, 10, 30, 0, 0, time.Local)

	no := GenerateNoPinjaman(tanggal)
	assert.True(t, strings.HasPrefix(no, "RS20260105-"))
	assert.Len(t, no, 15)
	assert.True(t, IsValidNoPinjaman(no))
}

func TestIsValidNoPinjaman(t *testing.T) {
	valid := []string{"RS20260105-0001", "RS19991231-9999", "RS20260105-0000"}
	for _, no := range valid {
		assert.True(t, IsValidNoPinjaman(no), no)
	}

	invalid := []string{
		"",
		"RS2026015-0001",    // short date
		"RS20260105-001",    // short suffix
		"RS20260105-00011",  // long suffix
		"XX20260105-0001",   // wrong prefix
		"RS20260105_0001",   // wrong separator
		" RS20260105-0001",  // leading space
		"RS20260105-0001 ",  // trailing space
	}
	for _, no := range invalid {
		assert.False(t, IsValidNoPinjaman(no), "%q", no)
	}
}
