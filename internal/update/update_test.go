package update

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appErrors "dbdeck/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3}},
		{in: " v0.10.0 ", want: Version{Minor: 10}},
		{in: "v2.0.0-rc.1", want: Version{Major: 2, Prerelease: "rc.1"}},
		{in: "dev", wantErr: true},
		{in: "1.2", wantErr: true},
		{in: "1.x.3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCompare(t *testing.T) {
	v := func(s string) Version {
		out, err := ParseVersion(s)
		require.NoError(t, err)
		return out
	}
	assert.True(t, v("1.2.3").LessThan(v("1.3.0")))
	assert.True(t, v("1.2.3-rc.1").LessThan(v("1.2.3")))
	assert.True(t, v("1.2.3-alpha").LessThan(v("1.2.3-beta")))
	assert.Zero(t, v("v1.0.0").Compare(v("1.0.0")))
	assert.Equal(t, "v2.0.0-rc.1", v("2.0.0-rc.1").String())
}

func releasesServer(t *testing.T, status int, tag string) string {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/latest", func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(Release{TagName: tag, HTMLURL: "https://example.com/" + tag})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/latest"
}

func TestCheck(t *testing.T) {
	url := releasesServer(t, http.StatusOK, "v0.4.0")
	c := NewChecker(url, time.Second)

	info, err := c.Check(context.Background(), "0.3.1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.UpdateAvailable)
	assert.Equal(t, "v0.4.0", info.Latest.String())
	assert.Equal(t, "https://example.com/v0.4.0", info.ReleaseURL)

	info, err = c.Check(context.Background(), "v0.4.0")
	require.NoError(t, err)
	assert.False(t, info.UpdateAvailable)
}

func TestCheckSkipsDevelopmentBuilds(t *testing.T) {
	c := NewChecker("http://127.0.0.1:1/never", time.Second)
	info, err := c.Check(context.Background(), "dev")
	assert.NoError(t, err)
	assert.Nil(t, info)
}

func TestCheckFailures(t *testing.T) {
	_, err := NewChecker(releasesServer(t, http.StatusForbidden, ""), time.Second).Check(context.Background(), "1.0.0")
	assert.True(t, appErrors.IsCode(err, appErrors.CodeResponse))
	assert.Contains(t, err.Error(), "rate limited")

	_, err = NewChecker(releasesServer(t, http.StatusOK, "nightly"), time.Second).Check(context.Background(), "1.0.0")
	assert.True(t, appErrors.IsCode(err, appErrors.CodeResponse))
}
