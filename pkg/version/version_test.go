package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1.2.3", Normalize("v1.2.3"))
	assert.Equal(t, "1.2.0", Normalize("1.2"))
	assert.Equal(t, "1.0.0-rc.1", Normalize(" v1.0.0-rc.1 "))
	assert.Equal(t, "not-a-version", Normalize("vnot-a-version"))
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"1.2.3", "1.2.4", true},
		{"1.9.0", "1.10.0", true},
		{"1.10.0", "1.9.0", false},
		{"1.0.0", "1.0.0", false},
		{"1.0.0-rc.1", "1.0.0", true},
		{"garbage", "2.0.0", false},
		{"1.0.0", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNewer(tt.current, tt.latest), "%s -> %s", tt.current, tt.latest)
	}
}

func TestLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "v2.1.0"}`))
	}))
	defer srv.Close()

	original := LatestReleaseURL
	LatestReleaseURL = srv.URL
	defer func() { LatestReleaseURL = original }()

	latest, err := LatestVersion(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", latest)
}

func TestFormatVersion(t *testing.T) {
	origVersion, origCommit, origBuild := Version, Commit, BuildTime
	defer func() { Version, Commit, BuildTime = origVersion, origCommit, origBuild }()

	Version, Commit, BuildTime = "1.2.3", "", ""
	assert.Equal(t, "1.2.3 (development)", FormatVersion())

	Commit = "abc1234"
	assert.Equal(t, "1.2.3 (commit: abc1234)", FormatVersion())

	BuildTime = "2026-10-18T09:30:00Z"
	assert.Equal(t, "1.2.3 (commit: abc1234, built at: 2026-10-18T09:30:00Z)", FormatVersion())
}
