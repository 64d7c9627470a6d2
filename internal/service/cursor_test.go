package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 45, 123456789, time.UTC)
	cursor := encodeCursor(ts, 42)

	gotTime, gotID, err := decodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, ts.UnixNano(), gotTime.UnixNano())
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := []string{
		"not base64 !!!",
		"aGVsbG8=",         // decodes but has no separator
		"MTIzfGFiYw==",     // id is not numeric
		"YWJjfDQy",         // timestamp is not numeric
	}

	for _, c := range cases {
		_, _, err := decodeCursor(c)
		assert.Error(t, err, "cursor %q should be rejected", c)
	}
}
