// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry holds the indicator knowledge base used by the affiliation
// classifier: academic terms, company terms, and the email pattern.
//
// A Registry is built once from a versioned YAML document (the embedded
// default or an operator-supplied file) and is read-only afterwards, so a
// single instance can be shared by any number of goroutines.
package registry

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultDocument []byte

// Document is the on-disk representation of a registry.
type Document struct {
	Version      string   `yaml:"version"`
	Academic     []string `yaml:"academic"`
	LegalForms   []string `yaml:"legal_forms,omitempty"`
	Company      []string `yaml:"company"`
	EmailPattern string   `yaml:"email_pattern"`
}

// Registry is an immutable set of classification indicators.
type Registry struct {
	version  string
	academic TermSet
	legal    TermSet
	named    TermSet // company terms other than legal forms
	company  TermSet // named and legal together
	email    *regexp.Regexp
	pattern  string
}

// Default returns the built-in registry. It panics only if the embedded
// document is invalid, which the package tests rule out.
func Default() *Registry {
	r, err := Parse(defaultDocument)
	if err != nil {
		panic("registry: invalid embedded document: " + err.Error())
	}
	return r
}

// Load reads a registry document from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading registry %s", path)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}
	return r, nil
}

// Parse builds a Registry from a YAML document.
func Parse(data []byte) (*Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing registry document")
	}
	return New(doc)
}

// New validates doc and compiles it into a Registry. Terms are lowercased,
// trimmed and deduplicated.
func New(doc Document) (*Registry, error) {
	version := strings.TrimSpace(doc.Version)
	if version == "" {
		return nil, errors.New("registry version is required")
	}

	academic := newTermSet(doc.Academic)
	if academic.Len() == 0 {
		return nil, errors.New("registry has no academic terms")
	}
	legal := newTermSet(doc.LegalForms)
	named := newTermSet(doc.Company)
	company := newTermSet(append(named.Terms(), legal.Terms()...))
	if company.Len() == 0 {
		return nil, errors.New("registry has no company terms")
	}

	pattern := strings.TrimSpace(doc.EmailPattern)
	if pattern == "" {
		return nil, errors.New("registry email_pattern is required")
	}
	email, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "compiling email_pattern")
	}

	return &Registry{
		version:  version,
		academic: academic,
		legal:    legal,
		named:    named,
		company:  company,
		email:    email,
		pattern:  pattern,
	}, nil
}

// Version returns the document version string.
func (r *Registry) Version() string { return r.version }

// Academic returns the academic indicator terms.
func (r *Registry) Academic() TermSet { return r.academic }

// Company returns every company indicator, legal forms included.
func (r *Registry) Company() TermSet { return r.company }

// LegalForms returns the legal-form suffixes ("inc", "gmbh", ...).
func (r *Registry) LegalForms() TermSet { return r.legal }

// EmailPattern returns the compiled email pattern. A *regexp.Regexp is safe
// for concurrent use.
func (r *Registry) EmailPattern() *regexp.Regexp { return r.email }

// Document returns the normalized document the registry was built from.
func (r *Registry) Document() Document {
	return Document{
		Version:      r.version,
		Academic:     r.academic.Terms(),
		LegalForms:   r.legal.Terms(),
		Company:      r.named.Terms(),
		EmailPattern: r.pattern,
	}
}

// Marshal renders the registry as YAML.
func (r *Registry) Marshal() ([]byte, error) {
	doc := r.Document()
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling registry")
	}
	return data, nil
}
