package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard values
	ts := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(ts, 1789456123456)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedTS, decodedID, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, ts, decodedTS, "Timestamp should match after decode")
	assert.Equal(t, int64(1789456123456), decodedID, "ID should match after decode")

	// Test case 2: Zero values
	zeroToken := EncodeToken(time.Time{}, 0)
	decodedZero, decodedZeroID, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.True(t, decodedZero.IsZero(), "Zero time should match after decode")
	assert.Zero(t, decodedZeroID)

	// Test case 3: Non-UTC input is normalized
	local := time.Date(2024, 1, 2, 3, 4, 5, 6, time.FixedZone("X", 3600))
	decodedLocal, _, err := DecodeToken(EncodeToken(local, 7))
	assert.NoError(t, err)
	assert.True(t, local.Equal(decodedLocal), "Instant should survive the round trip")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid timestamp
	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|12")))
	assert.Error(t, err, "Should return an error for invalid timestamp")
	assert.Contains(t, err.Error(), "timestamp parse")

	// Test invalid id
	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|abc")))
	assert.Error(t, err, "Should return an error for invalid id")
	assert.Contains(t, err.Error(), "id parse")
}
