package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// TemplateName is the file name of a prompt document under templates/.
type TemplateName string

const (
	TemplateDescribeSubject TemplateName = "describe_subject.yaml"
	TemplateCaricature      TemplateName = "caricature.yaml"
)

// templateDocument is the on-disk shape of a prompt template.
type templateDocument struct {
	Prompt string `yaml:"prompt"`
}

// PromptBuilder renders the caricature prompts. Each template is a YAML
// document whose `prompt` key holds a text/template body, decoded and parsed
// on first use and cached afterwards. Referencing a variable the data does not
// carry is a render error.
type PromptBuilder struct {
	mu        sync.RWMutex
	templates map[TemplateName]*template.Template
}

var (
	defaultBuilderOnce sync.Once
	defaultBuilder     *PromptBuilder
)

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		templates: make(map[TemplateName]*template.Template),
	}
}

// DefaultPromptBuilder is the process-wide builder used by DescriptionPrompt
// and GenerationPrompt.
func DefaultPromptBuilder() *PromptBuilder {
	defaultBuilderOnce.Do(func() {
		defaultBuilder = NewPromptBuilder()
	})
	return defaultBuilder
}

// Render executes the named template with data.
func (pb *PromptBuilder) Render(name TemplateName, data any) (string, error) {
	tmpl, err := pb.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return buf.String(), nil
}

func (pb *PromptBuilder) lookup(name TemplateName) (*template.Template, error) {
	pb.mu.RLock()
	if tmpl, ok := pb.templates[name]; ok {
		pb.mu.RUnlock()
		return tmpl, nil
	}
	pb.mu.RUnlock()

	tmpl, err := loadTemplate(name)
	if err != nil {
		return nil, err
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.templates[name] = tmpl

	return tmpl, nil
}

func loadTemplate(name TemplateName) (*template.Template, error) {
	content, err := templateFS.ReadFile(path.Join("templates", string(name)))
	if err != nil {
		return nil, fmt.Errorf("load prompt template %s: %w", name, err)
	}

	var doc templateDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode prompt template %s: %w", name, err)
	}
	if strings.TrimSpace(doc.Prompt) == "" {
		return nil, fmt.Errorf("prompt template %s has no prompt", name)
	}

	tmpl, err := template.New(string(name)).Option("missingkey=error").Parse(doc.Prompt)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}
	return tmpl, nil
}
