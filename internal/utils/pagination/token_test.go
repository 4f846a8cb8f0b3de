package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2025, 6, 15, 10, 30, 0, 123456789, time.UTC)
	id := "pay-abc-123"

	token := EncodeToken(createdAt, id)
	require.NotEmpty(t, token)

	gotTime, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!not-base64!!"},
		{"missing separator", encode("2025-06-15T10:30:00Z")},
		{"bad timestamp", encode("yesterday|pay-1")},
		{"empty id", encode("2025-06-15T10:30:00Z|")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
