package prompt

import (
	"fmt"
	"strings"

	"github.com/kapu/wedding-invitation-go/internal/domain"
	"gopkg.in/yaml.v3"
)

const stylesFile = "templates/styles.yaml"

var styleFragments map[domain.Style]string

func init() {
	content, err := templateFS.ReadFile(stylesFile)
	if err != nil {
		panic(err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(content, &raw); err != nil {
		panic(err)
	}

	styleFragments = make(map[domain.Style]string, len(raw))
	for key, fragment := range raw {
		styleFragments[domain.Style(key)] = strings.TrimSpace(fragment)
	}

	for _, style := range domain.SupportedStyles {
		if styleFragments[style] == "" {
			panic(fmt.Sprintf("styles.yaml is missing a template for %q", style))
		}
	}
}

// StyleTemplate returns the prompt fragment for style. Anything without its
// own template gets the romantic one.
func StyleTemplate(style domain.Style) string {
	return styleFragments[style.Resolve()]
}

// CaricatureVars holds variables for the caricature generation template
type CaricatureVars struct {
	StyleFragment string
	Description   string
	Watermark     string
}

// DescriptionPrompt returns the fixed instruction sent with the photo to the vision model.
func DescriptionPrompt() (string, error) {
	text, err := DefaultPromptBuilder().Render(TemplateDescribeSubject, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GenerationPrompt combines the style template, the vision description and the
// watermark instruction into the image-generation prompt.
func GenerationPrompt(style domain.Style, description, watermark string) (string, error) {
	text, err := DefaultPromptBuilder().Render(TemplateCaricature, CaricatureVars{
		StyleFragment: StyleTemplate(style),
		Description:   strings.TrimSpace(description),
		Watermark:     strings.TrimSpace(watermark),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
