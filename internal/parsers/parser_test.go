package parsers

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ethanolivertroy/validpack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates dir/rel with content, making parent directories as needed
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// parseString writes content to a temp file named filename and parses it
func parseString(t *testing.T, p Parser, filename, content string) []models.Dependency {
	t.Helper()
	path := writeFile(t, t.TempDir(), filename, content)
	return slices.Collect(p.Parse(path))
}

// relFiles collects FindFiles output relative to root, with forward slashes
func relFiles(t *testing.T, p Parser, root string) []string {
	t.Helper()
	var out []string
	for path := range p.FindFiles(root) {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func names(deps []models.Dependency) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = d.Name
	}
	return out
}

func TestGetAllParsers_Order(t *testing.T) {
	var got []models.Ecosystem
	for _, p := range GetAllParsers() {
		got = append(got, p.Ecosystem())
	}
	assert.Equal(t, models.AllEcosystems(), got)
}

func TestCanParse(t *testing.T) {
	tests := []struct {
		parser   Parser
		filename string
		want     bool
	}{
		{&NodePackageJSONParser{}, "package.json", true},
		{&NodePackageJSONParser{}, "Package.JSON", true},
		{&NodePackageJSONParser{}, "package-lock.json", false},
		{&NuGetProjectParser{}, "App.csproj", true},
		{&NuGetProjectParser{}, "App.CSPROJ", true},
		{&NuGetProjectParser{}, "App.fsproj", false},
		{&PythonParser{}, "requirements.txt", true},
		{&PythonParser{}, "requirements-dev.txt", true},
		{&PythonParser{}, "Requirements_prod.TXT", true},
		{&PythonParser{}, "pyproject.toml", true},
		{&PythonParser{}, "dev-requirements.txt", false},
		{&PythonParser{}, "Pipfile", false},
		{&CargoParser{}, "Cargo.toml", true},
		{&CargoParser{}, "cargo.toml", true},
		{&CargoParser{}, "Cargo.lock", false},
		{&MavenPOMParser{}, "pom.xml", true},
		{&MavenPOMParser{}, "POM.xml", true},
		{&MavenPOMParser{}, "settings.xml", false},
		{&GradleParser{}, "build.gradle", true},
		{&GradleParser{}, "build.gradle.kts", true},
		{&GradleParser{}, "settings.gradle", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.parser.Ecosystem())+"/"+tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.parser.CanParse(tt.filename))
		})
	}
}

func TestFindFiles_SkipsNoiseDirectories(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"package.json",
		"web/package.json",
		"web/node_modules/left-pad/package.json",
		".git/package.json",
		"App/App.csproj",
		"App/bin/Debug/App.csproj",
		"App/obj/App.csproj",
		"requirements.txt",
		"svc/pyproject.toml",
		".venv/lib/requirements.txt",
		"venv/requirements.txt",
		"env/requirements.txt",
		"lib/site-packages/x/requirements.txt",
		"Cargo.toml",
		"target/debug/Cargo.toml",
		"pom.xml",
		"mod/target/pom.xml",
		"build.gradle",
		"app/build.gradle.kts",
		"app/build/tmp/build.gradle",
		"gradle/wrapper/build.gradle",
		".gradle/build.gradle",
	} {
		writeFile(t, root, rel, "")
	}

	tests := []struct {
		parser Parser
		want   []string
	}{
		{&NodePackageJSONParser{}, []string{"package.json", "web/package.json"}},
		{&NuGetProjectParser{}, []string{"App/App.csproj"}},
		{&PythonParser{}, []string{"requirements.txt", "svc/pyproject.toml"}},
		{&CargoParser{}, []string{"Cargo.toml"}},
		{&MavenPOMParser{}, []string{"pom.xml"}},
		{&GradleParser{}, []string{"app/build.gradle.kts", "build.gradle"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.parser.Ecosystem()), func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, relFiles(t, tt.parser, root))
		})
	}
}

func TestFindFiles_RootNamedLikeSkipDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "target")
	writeFile(t, root, "Cargo.toml", "")

	assert.Equal(t, []string{"Cargo.toml"}, relFiles(t, &CargoParser{}, root))
}

func TestFindFiles_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	assert.Empty(t, relFiles(t, &NodePackageJSONParser{}, missing))
}

func TestFindFiles_StopsEarly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/package.json", "")
	writeFile(t, root, "b/package.json", "")
	writeFile(t, root, "c/package.json", "")

	count := 0
	for range (&NodePackageJSONParser{}).FindFiles(root) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestParse_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	for _, p := range GetAllParsers() {
		t.Run(string(p.Ecosystem()), func(t *testing.T) {
			assert.Empty(t, slices.Collect(p.Parse(missing)))
		})
	}
}
