// Package message loads localized message bundles from YAML files and
// resolves a request's Accept-Language against them.
//
// A bundle directory holds one file per locale:
//
//	messages/en.yaml
//	messages/ja.yaml
//
// Nested maps are flattened to dotted keys, so
//
//	constraints:
//	  required:
//	    message: is required
//
// is looked up as "constraints.required.message".
package message

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var ErrNoMessages = errors.New("message: no message files")

// Bundle holds the messages of every loaded locale. It is read-only after
// Load and safe for concurrent use.
type Bundle struct {
	def     language.Tag
	tags    []language.Tag
	locales map[language.Tag]map[string]string
	matcher language.Matcher
}

// Load reads every <locale>.yaml or <locale>.yml file in dir. def must be one
// of the loaded locales.
func Load(fsys fs.FS, dir string, def language.Tag) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("message: read %s: %w", dir, err)
	}

	b := &Bundle{def: def, locales: make(map[language.Tag]map[string]string)}
	for _, entry := range entries {
		ext := path.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		tag, err := language.Parse(strings.TrimSuffix(entry.Name(), ext))
		if err != nil {
			return nil, fmt.Errorf("message: %s: %w", entry.Name(), err)
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("message: read %s: %w", entry.Name(), err)
		}
		msgs, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("message: %s: %w", entry.Name(), err)
		}
		b.locales[tag] = msgs
	}

	if len(b.locales) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMessages, dir)
	}
	if _, ok := b.locales[def]; !ok {
		return nil, fmt.Errorf("message: default locale %s has no file in %s", def, dir)
	}

	return b.build(), nil
}

// New builds a bundle from in-memory messages.
func New(def language.Tag, locales map[language.Tag]map[string]string) *Bundle {
	b := &Bundle{def: def, locales: locales}
	if b.locales == nil {
		b.locales = make(map[language.Tag]map[string]string)
	}
	return b.build()
}

func (b *Bundle) build() *Bundle {
	// The default locale goes first: the matcher falls back to tags[0].
	b.tags = []language.Tag{b.def}
	var rest []language.Tag
	for tag := range b.locales {
		if tag != b.def {
			rest = append(rest, tag)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })
	b.tags = append(b.tags, rest...)
	b.matcher = language.NewMatcher(b.tags)
	return b
}

// Parse flattens a YAML document into dotted keys.
func Parse(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	flatten("", doc, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Default returns the default locale.
func (b *Bundle) Default() language.Tag {
	return b.def
}

// Locales returns the loaded locales, default first.
func (b *Bundle) Locales() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Negotiate picks the best loaded locale for an Accept-Language header.
// It returns the default locale when nothing matches.
func (b *Bundle) Negotiate(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return b.def
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.def
	}
	return b.tags[idx]
}

// Lookup returns the message for key in tag, falling back to the tag's base
// language and then to the default locale.
func (b *Bundle) Lookup(tag language.Tag, key string) (string, bool) {
	if msg, ok := b.locales[tag][key]; ok {
		return msg, true
	}
	if base, conf := tag.Base(); conf != language.No {
		if msg, ok := b.locales[language.Make(base.String())][key]; ok {
			return msg, true
		}
	}
	msg, ok := b.locales[b.def][key]
	return msg, ok
}

// Get is Lookup returning key itself for unknown messages.
func (b *Bundle) Get(tag language.Tag, key string) string {
	if msg, ok := b.Lookup(tag, key); ok {
		return msg
	}
	return key
}

// Render is Get with {name} variables replaced from vars.
func (b *Bundle) Render(tag language.Tag, key string, vars map[string]string) string {
	msg := b.Get(tag, key)
	if len(vars) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(vars))
	for name, v := range vars {
		pairs = append(pairs, "{"+name+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
