package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luriusTM/Seelen-UI/internal/runtimepath"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source
	Files   []string          // all loaded files, in load order
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/seelenweg/config.yaml, falling
// back to ~/.config.
func DefaultConfigPath() (string, error) {
	dir, err := runtimepath.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus per-key sources for `weg config explain`.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the
// defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	var top layer
	if _, err := os.Stat(path); err == nil {
		l := &loader{visited: make(map[string]bool)}
		if top, err = l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if top.sources == nil {
		top.sources = map[string]Source{}
	}

	cfg, err := BuildEffectiveConfig(top.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, withSource(err, top.sources)
	}
	return &LoadResult{Config: cfg, Sources: top.sources, Files: top.files}, nil
}

// layer is one file merged over everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// over merges l on top of base; l wins for every key it sets.
func (l layer) over(base layer) layer {
	out := layer{
		raw:     base.raw.merge(l.raw),
		sources: make(map[string]Source, len(base.sources)+len(l.sources)),
		files:   append(slices.Clone(base.files), l.files...),
	}
	for k, v := range base.sources {
		out.sources[k] = v
	}
	for k, v := range l.sources {
		out.sources[k] = v
	}
	return out
}

// loader walks an include graph. visited suppresses diamonds; chain detects
// cycles.
type loader struct {
	visited map[string]bool
	chain   []string
}

func (l *loader) load(path string) (layer, error) {
	file := canonical(path)
	if slices.Contains(l.chain, file) {
		return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
	}
	if l.visited[file] {
		return layer{}, nil
	}
	l.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	own := layer{sources: map[string]Source{}, files: []string{file}}
	if err := decodeStrict(data, &own.raw); err != nil {
		return layer{}, fmt.Errorf("%s: %w", file, err)
	}
	root := rootMapping(&doc)
	walkSources(root, file, "", own.sources)

	l.chain = append(l.chain, file)
	defer func() { l.chain = l.chain[:len(l.chain)-1] }()

	var base layer
	for _, inc := range includes(root, file) {
		paths, err := expand(file, inc.Name)
		if err != nil {
			return layer{}, fmt.Errorf("%s: include %q: %w", inc.position(), inc.Name, err)
		}
		for _, p := range paths {
			sub, err := l.load(p)
			if err != nil {
				return layer{}, err
			}
			base = sub.over(base)
		}
	}
	return own.over(base), nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// expand resolves an include relative to the including file. A directory
// expands to its *.yaml and *.yml files in name order.
func expand(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	target, err := expandHome(include)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(from), target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(target, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	files = slices.DeleteFunc(files, func(p string) bool {
		st, err := os.Stat(p)
		return err != nil || st.IsDir()
	})
	slices.Sort(files)
	return files, nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// walkSources records the position of every mapping value under its dotted
// path.
func walkSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + path
		}
		out[path] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
		walkSources(val, file, path, out)
	}
}

// includes returns the include entries of a mapping, each with its position.
// The Name field carries the include value.
func includes(root *yaml.Node, file string) []Source {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := val.Content
		if val.Kind == yaml.ScalarNode {
			items = []*yaml.Node{val}
		}
		var out []Source
		for _, it := range items {
			if it.Kind == yaml.ScalarNode {
				out = append(out, Source{Kind: SourceFile, Name: it.Value, File: file, Line: it.Line, Column: it.Column})
			}
		}
		return out
	}
	return nil
}

func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
