package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePathStripsQueryString(t *testing.T) {
	assert.Equal(t, "/api/visitors", sanitizePath("/api/visitors?page=2&status=active"))
	assert.Equal(t, "/api/visitors", sanitizePath("/api/visitors"))
}

func TestSanitizePathTruncatesToColumnWidth(t *testing.T) {
	long := "/api/" + strings.Repeat("x", 600)

	got := sanitizePath(long)

	// anything longer than the audit_logs.path column would fail the insert
	assert.Len(t, got, maxAuditPathLen)
	assert.Equal(t, long[:maxAuditPathLen], got)
}

func TestIsMutating(t *testing.T) {
	assert.True(t, isMutating("POST"))
	assert.True(t, isMutating("PUT"))
	assert.True(t, isMutating("PATCH"))
	assert.True(t, isMutating("DELETE"))
	assert.False(t, isMutating("GET"))
	assert.False(t, isMutating("HEAD"))
}

func TestShouldSkipAudit(t *testing.T) {
	assert.True(t, shouldSkipAudit("/health"))
	assert.True(t, shouldSkipAudit("/metrics"))
	assert.True(t, shouldSkipAudit("/auth/login"))
	assert.False(t, shouldSkipAudit("/api/visitors"))
}
