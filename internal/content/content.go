// Package content holds the portfolio copy. Prose fields are markdown and are
// rendered to HTML once at load time.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

type Project struct {
	Slug    string        `yaml:"slug"`
	Title   string        `yaml:"title"`
	Tags    []string      `yaml:"tags"`
	Summary string        `yaml:"summary"`
	HTML    template.HTML `yaml:"-"`
}

// Entry is one line of work or education history.
type Entry struct {
	Title  string   `yaml:"title"`
	Org    string   `yaml:"org"`
	Start  string   `yaml:"start"`
	End    string   `yaml:"end"`
	Logo   string   `yaml:"logo"`
	Points []string `yaml:"points"`
}

type Content struct {
	About      string        `yaml:"about"`
	AboutHTML  template.HTML `yaml:"-"`
	Projects   []Project     `yaml:"projects"`
	Experience []Entry       `yaml:"experience"`
	Education  []Entry       `yaml:"education"`
}

// Default returns the content compiled into the binary.
func Default() (*Content, error) {
	return Parse(defaultYAML)
}

// Parse decodes YAML content and renders its markdown fields.
func Parse(src []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(src, &c); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var err error
	if c.AboutHTML, err = render(md, c.About); err != nil {
		return nil, fmt.Errorf("rendering about: %w", err)
	}
	for i := range c.Projects {
		p := &c.Projects[i]
		if p.Slug == "" {
			return nil, fmt.Errorf("project %d: slug is required", i)
		}
		if p.HTML, err = render(md, p.Summary); err != nil {
			return nil, fmt.Errorf("rendering project %s: %w", p.Slug, err)
		}
	}
	return &c, nil
}

// render converts markdown to HTML. goldmark drops raw HTML in the source,
// so the result is safe to mark as template.HTML.
func render(md goldmark.Markdown, src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
