package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"vendor/**", "vendor/pkg/package.json", true},
		{"vendor/**", "src/vendor/package.json", false},
		{"**/fixtures/**", "test/fixtures/a/pom.xml", true},
		{"*/package.json", "app/package.json", true},
		{"*/package.json", "app/sub/package.json", false},
		{"requirements?.txt", "requirements2.txt", true},
		{"requirements?.txt", "requirements.txt", false},
		{"Samples/**", "samples/demo/build.gradle", true},
		{"docs/*.toml", "docs/Cargo.toml", true},
		{"a.b/**", "axb/Cargo.toml", false},
		{"package.json", "sub/package.json", false},
		{`legacy\**`, "legacy/x/pom.xml", true},
		{"café/**", "café/package.json", true},
		{"CAFÉ/**", "café/package.json", true},
		{"caf?/package.json", "café/package.json", true},
		{"données/*/pom.xml", "données/svc/pom.xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchGlob(tt.pattern, tt.path))
		})
	}
}
