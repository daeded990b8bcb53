// Package config loads the application manifest: the restful router kind,
// the JSON policy, the message bundle and the declared actions. The flute
// command compiles a manifest into a playground router whose executes echo
// their converted arguments.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest wraps every manifest validation failure.
var ErrInvalidManifest = errors.New("config: invalid manifest")

// Restful router kinds.
const (
	RouterNone    = ""
	RouterNumeric = "numeric"
	RouterPair    = "pair"
)

// Body policies, see jsonengine.Policy.
const (
	PolicyReject = "reject"
	PolicyZero   = "zero"
)

// Manifest is the root of the YAML document.
type Manifest struct {
	Router   RouterConfig   `yaml:"router"`
	JSON     JSONConfig     `yaml:"json"`
	Messages MessagesConfig `yaml:"messages"`
	Actions  []ActionConfig `yaml:"actions" validate:"dive"`

	// dir is the directory of the loaded file; message directories are
	// relative to it.
	dir string
}

// RouterConfig selects the restful router.
type RouterConfig struct {
	Restful   string `yaml:"restful" validate:"omitempty,oneof=numeric pair"`
	UUIDIDs   bool   `yaml:"uuidIds"`
	SkipClean bool   `yaml:"skipClean"`
}

// JSONConfig configures the JSON engine.
type JSONConfig struct {
	DisallowUnknownFields bool   `yaml:"disallowUnknownFields"`
	EmptyBody             string `yaml:"emptyBody" validate:"omitempty,oneof=reject zero"`
	NullBody              string `yaml:"nullBody" validate:"omitempty,oneof=reject zero"`
	Indent                string `yaml:"indent"`
}

// MessagesConfig locates the message bundle.
type MessagesConfig struct {
	Dir           string `yaml:"dir"`
	DefaultLocale string `yaml:"defaultLocale" validate:"required_with=Dir"`
}

// ActionConfig declares one action.
type ActionConfig struct {
	Name      string          `yaml:"name" validate:"required"`
	Restful   bool            `yaml:"restful"`
	Hyphenate []string        `yaml:"hyphenate"`
	Executes  []ExecuteConfig `yaml:"executes" validate:"required,min=1,dive"`
}

// ExecuteConfig declares one execute by its method name, URL pattern and
// path parameter types, e.g. "int", "uuid" or "optional[string]".
type ExecuteConfig struct {
	Method     string   `yaml:"method" validate:"required"`
	URLPattern string   `yaml:"urlPattern"`
	Params     []string `yaml:"params"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the manifest values and the parameter type names.
func (m *Manifest) Validate() error {
	if err := validator.New().Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			errs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%w: %s fails %q", ErrInvalidManifest, fe.Namespace(), fe.Tag()))
			}
			return errors.Join(errs...)
		}
		return err
	}

	var errs []error
	if m.Messages.DefaultLocale != "" {
		if _, err := language.Parse(m.Messages.DefaultLocale); err != nil {
			errs = append(errs, fmt.Errorf("%w: default locale: %w", ErrInvalidManifest, err))
		}
	}

	seen := make(map[string]bool, len(m.Actions))
	for _, a := range m.Actions {
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("%w: action %q is declared twice", ErrInvalidManifest, a.Name))
		}
		seen[a.Name] = true

		for _, e := range a.Executes {
			for _, p := range e.Params {
				if _, err := ParamType(p); err != nil {
					errs = append(errs, fmt.Errorf("%w: %s.%s: %w", ErrInvalidManifest, a.Name, e.Method, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Dir returns the directory the manifest was loaded from, "." for parsed
// manifests.
func (m *Manifest) Dir() string {
	if m.dir == "" {
		return "."
	}
	return m.dir
}
