package parsers

import (
	"iter"
	"regexp"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// gradleConfigurations are the dependency configurations recognised inside
// a dependencies block, including the legacy pre-Gradle-7 names
var gradleConfigurations = []string{
	"implementation", "api", "compileOnly", "runtimeOnly",
	"testImplementation", "testCompileOnly", "testRuntimeOnly",
	"androidTestImplementation", "debugImplementation", "releaseImplementation",
	"annotationProcessor", "kapt", "ksp",
	"compile", "runtime", "testCompile", "testRuntime",
}

var (
	configAlternation = strings.Join(gradleConfigurations, "|")

	// implementation 'group:artifact:version'
	gradleGroovyPattern = regexp.MustCompile(`(?i)^\s*(` + configAlternation + `)\s+['"]([^'"]+)['"]`)

	// implementation("group:artifact:version")
	gradleKotlinPattern = regexp.MustCompile(`(?i)^\s*(` + configAlternation + `)\s*\(\s*['"]([^'"]+)['"]`)

	// group:artifact[:version][@classifier]
	mavenCoordinatePattern = regexp.MustCompile(`^([^:]+):([^:]+)(?::([^:@]+))?(?:@\w+)?$`)

	gradleVariablePattern = regexp.MustCompile(`\$\w+`)
)

// GradleParser parses build.gradle and build.gradle.kts files
type GradleParser struct{}

// Ecosystem returns Gradle
func (p *GradleParser) Ecosystem() models.Ecosystem { return models.EcosystemGradle }

// CanParse returns true for Groovy and Kotlin DSL build scripts
func (p *GradleParser) CanParse(filename string) bool {
	return strings.EqualFold(filename, "build.gradle") ||
		strings.EqualFold(filename, "build.gradle.kts")
}

// FindFiles yields build scripts outside build output and Gradle wrapper directories
func (p *GradleParser) FindFiles(root string) iter.Seq[string] {
	return findFiles(root, []string{"build", ".gradle", "gradle"}, p.CanParse)
}

// Parse extracts external module dependencies from a build script
func (p *GradleParser) Parse(path string) iter.Seq[models.Dependency] {
	return parseWith(path, p.extract)
}

func (p *GradleParser) extract(path string, content []byte) []models.Dependency {
	var deps []models.Dependency
	inBlock := false
	depth := 0

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*") {
			continue
		}

		if !inBlock && hasPrefixFold(line, "dependencies") && strings.Contains(line, "{") {
			rest := line[strings.Index(line, "{")+1:]
			depth = 1 + strings.Count(rest, "{") - strings.Count(rest, "}")
			inBlock = depth > 0

			// dependencies { implementation("g:a:v") }
			if dep, ok := parseGradleLine(rest, path); ok {
				deps = append(deps, dep)
			}
			continue
		}

		if !inBlock {
			continue
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			inBlock = false
			continue
		}

		if dep, ok := parseGradleLine(line, path); ok {
			deps = append(deps, dep)
		}
	}

	return deps
}

// parseGradleLine extracts a Maven coordinate from one dependency
// declaration. Project, file and interpolated references are rejected.
func parseGradleLine(line, path string) (models.Dependency, bool) {
	if strings.Contains(line, "project(") || strings.Contains(line, "project (") ||
		strings.Contains(line, "files(") || strings.Contains(line, "fileTree(") ||
		strings.Contains(line, "${") || gradleVariablePattern.MatchString(line) {
		return models.Dependency{}, false
	}

	m := gradleKotlinPattern.FindStringSubmatch(line)
	if m == nil {
		m = gradleGroovyPattern.FindStringSubmatch(line)
	}
	if m == nil {
		return models.Dependency{}, false
	}

	coord := mavenCoordinatePattern.FindStringSubmatch(m[2])
	if coord == nil {
		return models.Dependency{}, false
	}

	group, artifact, version := coord[1], coord[2], coord[3]
	if strings.Contains(group, "$") || strings.Contains(artifact, "$") {
		return models.Dependency{}, false
	}

	return models.Dependency{
		Name:       group + ":" + artifact,
		Version:    version,
		Ecosystem:  models.EcosystemGradle,
		SourceFile: path,
	}, true
}
