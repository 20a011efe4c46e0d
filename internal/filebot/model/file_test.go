package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	cases := []struct {
		name string
		size *int64
		want string
	}{
		{"missing", nil, "Unknown size"},
		{"bytes", ptr(512), "512.0 B"},
		{"kilobytes", ptr(1536), "1.5 KB"},
		{"megabytes", ptr(5 * 1024 * 1024), "5.0 MB"},
		{"gigabytes", ptr(2 * 1024 * 1024 * 1024), "2.0 GB"},
		{"terabytes", ptr(3 * 1024 * 1024 * 1024 * 1024), "3.0 TB"},
		{"zero", ptr(0), "0.0 B"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatSize(tc.size))
		})
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 15, 4, 0, 0, time.UTC)
	require.Equal(t, "March 07, 2024 at 03:04 PM", FormatDate(ts))
	require.Equal(t, "Unknown date", FormatDate(time.Time{}))
}

func TestSizeOrZero(t *testing.T) {
	rec := &FileRecord{}
	require.Zero(t, rec.SizeOrZero())

	rec.FileSize = ptr(42)
	require.Equal(t, int64(42), rec.SizeOrZero())
}

func ptr(v int64) *int64 {
	return &v
}
