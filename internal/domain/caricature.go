package domain

import "github.com/kapu/wedding-invitation-go/internal/util"

// Style selects the visual tone of a generated caricature.
type Style string

const (
	StyleRomantic  Style = "romantic"
	StyleCartoon   Style = "cartoon"
	StyleElegant   Style = "elegant"
	StyleWhimsical Style = "whimsical"
)

// SupportedStyles lists the styles with a dedicated prompt template.
var SupportedStyles = []Style{StyleRomantic, StyleCartoon, StyleElegant, StyleWhimsical}

// IsSupported reports whether s has its own template.
func (s Style) IsSupported() bool {
	for _, supported := range SupportedStyles {
		if s == supported {
			return true
		}
	}
	return false
}

// Resolve maps any requested style onto a supported one; unknown and empty
// values resolve to romantic.
func (s Style) Resolve() Style {
	normalized := Style(util.Normalize(string(s)))
	if normalized.IsSupported() {
		return normalized
	}
	return StyleRomantic
}

// CaricatureRequest is the JSON body of POST /generate-caricature.
type CaricatureRequest struct {
	ImageBase64 string `json:"imageBase64"`
	Style       Style  `json:"style"`
}

// CaricatureResponse is returned for every caricature request, success or not.
type CaricatureResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Image is a decoded upload ready to be sent upstream.
type Image struct {
	Data     []byte
	MIMEType string
	Base64   string
}

// DataURL renders the image as an RFC 2397 data URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64
}
