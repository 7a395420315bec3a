package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file FindManifest looks for.
const ManifestName = "package.yml"

// Manifest is a validated package.yml. Targets keep their declaration order.
type Manifest struct {
	Path    string
	Dir     string
	Name    string
	Version string
	License string
	Authors []string
	Options Options
	Targets []*TargetSpec

	byName map[string]*TargetSpec
}

// TargetSpec is one entry under `targets`. Units are submitted in order
// before Main, each layered on the previous one.
type TargetSpec struct {
	Name         string
	OriginalName string
	Type         TargetType
	Main         string
	Units        []string
	Options      Options
	Expect       *Expectation
}

// Expectation is what a test target must produce. A nil Stdout is not
// compared; every diagnostic fragment must match one produced message.
type Expectation struct {
	Stdout      *string
	Diagnostics []string
}

type TargetType string

const (
	TargetTypeExecutable TargetType = "executable"
	TargetTypeTest       TargetType = "test"
)

// IsValid reports whether the target type is recognised.
func (t TargetType) IsValid() bool {
	return t == TargetTypeExecutable || t == TargetTypeTest
}

// ValidationError lists every problem found in a manifest.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	return "manifest validation failed:\n- " + strings.Join(e.Issues, "\n- ")
}

func (e *ValidationError) addf(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

var (
	// ErrManifestNotFound is returned by FindManifest when no package.yml
	// exists up the directory tree.
	ErrManifestNotFound   = errors.New("manifest: package.yml not found")
	ErrNoExecutableTarget = errors.New("manifest: no executable targets defined")
)

// FindManifest walks up from dir to the nearest package.yml.
func FindManifest(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(current, ManifestName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrManifestNotFound
		}
		current = parent
	}
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", abs, err)
	}
	defer f.Close()
	return ParseManifest(f, abs)
}

// ParseManifest decodes a manifest from r; path locates it for resolving
// relative entries. Unknown keys are rejected.
func ParseManifest(r io.Reader, path string) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc manifestDocument
	switch err := dec.Decode(&doc); {
	case errors.Is(err, io.EOF):
		return nil, fmt.Errorf("manifest: %s is empty", path)
	case err != nil:
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	manifest, issues := doc.build(path)
	issues.Issues = append(issues.Issues, manifest.check()...)
	if len(issues.Issues) > 0 {
		return nil, &issues
	}
	return manifest, nil
}

func (m *Manifest) check() []string {
	var errs ValidationError
	if m.Name == "" {
		errs.addf("name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.addf("authors[%d] must be a non-empty string", i)
		}
	}
	checkOptions(&errs, "options", m.Options)

	for _, target := range m.Targets {
		label := target.OriginalName
		switch {
		case target.Type == "":
			errs.addf("target %q missing type", label)
		case !target.Type.IsValid():
			errs.addf("target %q has unsupported type %q", label, target.Type)
		}
		if target.Main == "" {
			errs.addf("target %q requires a main entrypoint", label)
		}
		if target.Expect != nil && target.Type != TargetTypeTest {
			errs.addf("target %q declares expect but is not a test target", label)
		}
		checkOptions(&errs, "targets."+label+".options", target.Options)
	}
	return errs.Issues
}

// checkOptions validates a single options layer; unset fields are fine.
func checkOptions(errs *ValidationError, where string, opts Options) {
	if opts.MaxSteps < -1 {
		errs.addf("%s.max_steps must be -1 (unlimited) or positive", where)
	}
	if opts.MaxDepth < 0 {
		errs.addf("%s.max_depth must be positive", where)
	}
	if opts.Emit == "" {
		return
	}
	if err := (Options{Emit: opts.Emit}).validate(); err != nil {
		errs.addf("%s: %v", where, err)
	}
}

// DefaultExecutableTarget returns the first executable target.
func (m *Manifest) DefaultExecutableTarget() (*TargetSpec, error) {
	if m != nil {
		for _, target := range m.Targets {
			if target.Type == TargetTypeExecutable {
				return target, nil
			}
		}
	}
	return nil, ErrNoExecutableTarget
}

// TestTargets returns the test targets in declaration order.
func (m *Manifest) TestTargets() []*TargetSpec {
	if m == nil {
		return nil
	}
	var tests []*TargetSpec
	for _, target := range m.Targets {
		if target.Type == TargetTypeTest {
			tests = append(tests, target)
		}
	}
	return tests
}

// FindTarget looks a target up by its sanitized name, falling back to a
// case-insensitive match on the declared name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if target, ok := m.byName[sanitizeSegment(name)]; ok {
		return target, true
	}
	for _, target := range m.Targets {
		if strings.EqualFold(target.OriginalName, name) {
			return target, true
		}
	}
	return nil, false
}

// Submissions lists the files of a target in submission order, resolved
// against the manifest directory.
func (m *Manifest) Submissions(target *TargetSpec) []string {
	paths := make([]string, 0, len(target.Units)+1)
	for _, unit := range target.Units {
		paths = append(paths, m.resolve(unit))
	}
	return append(paths, m.resolve(target.Main))
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.Dir == "" {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// TargetOptions layers the target's options over the manifest's, then
// overrides on top.
func (m *Manifest) TargetOptions(target *TargetSpec, overrides Options) (Options, error) {
	return ResolveOptions(m.Options, target.Options, overrides)
}

var segmentPattern = regexp.MustCompile(`[^a-z0-9_]+`)

// sanitizeSegment lowercases a name and collapses every run of characters
// other than letters, digits and underscores into one underscore.
func sanitizeSegment(name string) string {
	s := segmentPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(s, "_")
}

type manifestDocument struct {
	Name    string    `yaml:"name"`
	Version string    `yaml:"version"`
	License string    `yaml:"license"`
	Authors []string  `yaml:"authors"`
	Options Options   `yaml:"options"`
	Targets yaml.Node `yaml:"targets"`
}

type targetDocument struct {
	Type    TargetType           `yaml:"type"`
	Main    string               `yaml:"main"`
	Units   fileList             `yaml:"units"`
	Options Options              `yaml:"options"`
	Expect  *expectationDocument `yaml:"expect"`
}

type expectationDocument struct {
	Stdout      *string  `yaml:"stdout"`
	Diagnostics []string `yaml:"diagnostics"`
}

// build converts the decoded document. Structural problems in `targets` are
// returned as issues alongside whatever could be read.
func (doc manifestDocument) build(path string) (*Manifest, ValidationError) {
	var errs ValidationError
	m := &Manifest{
		Path:    path,
		Dir:     filepath.Dir(path),
		Name:    sanitizeSegment(doc.Name),
		Version: strings.TrimSpace(doc.Version),
		License: strings.TrimSpace(doc.License),
		Options: doc.Options.trimmed(),
		byName:  map[string]*TargetSpec{},
	}
	for _, author := range doc.Authors {
		m.Authors = append(m.Authors, strings.TrimSpace(author))
	}

	targets := &doc.Targets
	switch {
	case targets.Kind == 0 || targets.Tag == "!!null":
		return m, errs
	case targets.Kind != yaml.MappingNode:
		errs.addf("targets must be a mapping")
		return m, errs
	}

	seen := map[string]string{}
	for i := 0; i+1 < len(targets.Content); i += 2 {
		original := strings.TrimSpace(targets.Content[i].Value)
		if original == "" {
			errs.addf("targets must not use empty keys")
			continue
		}
		var raw targetDocument
		if err := targets.Content[i+1].Decode(&raw); err != nil {
			errs.addf("target %q: %v", original, err)
			continue
		}
		target := raw.spec(original)
		if first, clash := seen[target.Name]; clash {
			errs.addf("targets %q and %q collide after sanitization", first, original)
			continue
		}
		seen[target.Name] = original
		m.byName[target.Name] = target
		m.Targets = append(m.Targets, target)
	}
	return m, errs
}

func (raw targetDocument) spec(original string) *TargetSpec {
	target := &TargetSpec{
		Name:         sanitizeSegment(original),
		OriginalName: original,
		Type:         TargetType(strings.TrimSpace(string(raw.Type))),
		Main:         strings.TrimSpace(raw.Main),
		Units:        []string(raw.Units),
		Options:      raw.Options.trimmed(),
	}
	if raw.Expect != nil {
		target.Expect = &Expectation{Stdout: raw.Expect.Stdout}
		for _, fragment := range raw.Expect.Diagnostics {
			if fragment = strings.TrimSpace(fragment); fragment != "" {
				target.Expect.Diagnostics = append(target.Expect.Diagnostics, fragment)
			}
		}
	}
	return target
}

func (o Options) trimmed() Options {
	o.Emit = strings.TrimSpace(o.Emit)
	return o
}

// fileList accepts a single path or a sequence of paths; blanks are dropped.
type fileList []string

func (l *fileList) UnmarshalYAML(value *yaml.Node) error {
	var items []string
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!null" {
			items = []string{value.Value}
		}
	case yaml.SequenceNode:
		if err := value.Decode(&items); err != nil {
			return err
		}
	default:
		return fmt.Errorf("manifest: expected a path or a list of paths, found %s", value.ShortTag())
	}
	*l = nil
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}
