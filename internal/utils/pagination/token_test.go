package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard values
	date := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(date, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedNo, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, date, decodedDate, "Date should match after decode")
	assert.Equal(t, int64(42), decodedNo, "Voucher number should match after decode")

	// Test case 2: Zero date, first voucher
	zeroTime := time.Time{}
	zeroToken := EncodeToken(zeroTime, 1)
	decodedZeroDate, decodedOne, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero date should not return an error")
	assert.True(t, zeroTime.Equal(decodedZeroDate), "Zero date should match after decode")
	assert.Equal(t, int64(1), decodedOne)

	// Test case 3: Large voucher number
	bigToken := EncodeToken(date, 9_000_000_000)
	_, decodedBig, err := DecodeToken(bigToken)
	assert.NoError(t, err)
	assert.Equal(t, int64(9_000_000_000), decodedBig, "Numbers past int32 should round-trip")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	_, _, err = DecodeToken("bm8gc2VwYXJhdG9yIGhlcmU=")
	assert.Error(t, err, "Should return an error for a token without a separator")
	assert.Contains(t, err.Error(), "split", "Error should mention the split failure")

	// Test bad date component
	_, _, err = DecodeToken("bm90YWRhdGV8NQ==")
	assert.Error(t, err, "Should return an error for a malformed date")
	assert.Contains(t, err.Error(), "date parse")

	// Test bad voucher number component
	_, _, err = DecodeToken("MjAyMy0wNS0xNXxOYU4=")
	assert.Error(t, err, "Should return an error for a malformed voucher number")
	assert.Contains(t, err.Error(), "voucher number parse")
}
