package validators

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethanolivertroy/validpack/internal/clients"
	"github.com/ethanolivertroy/validpack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProber remembers every URL it is asked about
type recordingProber struct {
	urls   []string
	exists bool
	err    error
}

func (r *recordingProber) Exists(_ context.Context, url string) (bool, error) {
	r.urls = append(r.urls, url)
	return r.exists, r.err
}

func TestValidatorURLs(t *testing.T) {
	tests := []struct {
		name      string
		validator func(Prober) Validator
		pkg       string
		want      string
	}{
		{"npm plain", func(p Prober) Validator { return NewNpm(p) }, "lodash", "https://registry.npmjs.org/lodash"},
		{"npm scoped", func(p Prober) Validator { return NewNpm(p) }, "@angular/core", "https://registry.npmjs.org/@angular%2Fcore"},
		{"nuget lowercases", func(p Prober) Validator { return NewNuGet(p) }, "Newtonsoft.Json", "https://api.nuget.org/v3-flatcontainer/newtonsoft.json/index.json"},
		{"pypi lowercases", func(p Prober) Validator { return NewPyPI(p) }, "Django", "https://pypi.org/pypi/django/json"},
		{"crates", func(p Prober) Validator { return NewCrates(p) }, "serde_json", "https://crates.io/api/v1/crates/serde_json"},
		{"maven", func(p Prober) Validator { return NewMaven(p) }, "org.apache.commons:commons-lang3", "https://repo1.maven.org/maven2/org/apache/commons/commons-lang3/maven-metadata.xml"},
		{"gradle delegates to maven", func(p Prober) Validator { return NewGradle(NewMaven(p)) }, "com.google.guava:guava", "https://repo1.maven.org/maven2/com/google/guava/guava/maven-metadata.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingProber{exists: true}
			ok, err := tt.validator(p).Validate(context.Background(), tt.pkg)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []string{tt.want}, p.urls)
		})
	}
}

func TestBlankNameIsNotFound(t *testing.T) {
	p := &recordingProber{exists: true}
	for eco, v := range New(p) {
		ok, err := v.Validate(context.Background(), "  ")
		require.NoError(t, err, eco)
		assert.False(t, ok, eco)
	}
	assert.Empty(t, p.urls)
}

func TestMavenRejectsMalformedCoordinates(t *testing.T) {
	p := &recordingProber{exists: true}
	v := NewMaven(p)

	for _, name := range []string{"junit", "a:b:c", ":artifact", "group:"} {
		ok, err := v.Validate(context.Background(), name)
		require.NoError(t, err, name)
		assert.False(t, ok, name)
	}
	assert.Empty(t, p.urls)
}

func TestValidatorPropagatesProbeError(t *testing.T) {
	boom := errors.New("boom")
	p := &recordingProber{err: boom}

	ok, err := NewPyPI(p).Validate(context.Background(), "requests")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestNewCoversEveryEcosystem(t *testing.T) {
	all := New(&recordingProber{})
	require.Len(t, all, len(models.AllEcosystems()))

	for _, eco := range models.AllEcosystems() {
		v, ok := all[eco]
		require.True(t, ok, eco)
		assert.Equal(t, eco, v.Ecosystem())
	}
}

func TestCratesAgainstRegistryServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/crates/serde" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	v := NewCrates(clients.NewProbe(0, clients.NoopGate{}))
	v.baseURL = server.URL + "/api/v1/crates"

	ok, err := v.Validate(context.Background(), "serde")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Validate(context.Background(), "serde-typo-squat")
	require.NoError(t, err)
	assert.False(t, ok)
}
