package versions

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfoWithValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		version     string
		commit      string
		buildDate   string
		wantVersion string
		wantDate    string
	}{
		{
			name:        "release build",
			version:     "v1.2.0",
			commit:      "0123456789abcdef",
			buildDate:   "2025-03-01T10:00:00Z",
			wantVersion: "v1.2.0",
			wantDate:    "2025-03-01 10:00:00 UTC",
		},
		{
			name:        "dev build uses commit",
			version:     "dev",
			commit:      "0123456789abcdef",
			buildDate:   "not-a-date",
			wantVersion: "build-01234567",
			wantDate:    "not-a-date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := getVersionInfoWithValues(tt.version, tt.commit, tt.buildDate)
			assert.Equal(t, tt.wantVersion, info.Version)
			assert.Equal(t, tt.wantDate, info.BuildDate)
			assert.Equal(t, tt.commit, info.Commit)
			assert.Equal(t, runtime.Version(), info.GoVersion)
			assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
		})
	}
}
