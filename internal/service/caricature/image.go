package caricature

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/kapu/wedding-invitation-go/internal/constants"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
)

var allowedMIMETypes = []string{"image/jpeg", "image/png"}

// lineBreaks strips MIME-style wrapping so the size check sees only payload.
var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// DecodeImage validates the uploaded payload: non-empty, well-formed base64
// (a data URL prefix and line wrapping are accepted), at most MaxImageBytes
// once decoded, and sniffed as JPEG or PNG.
func DecodeImage(encoded string) (domain.Image, error) {
	encoded = strings.TrimSpace(encoded)
	if idx := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && idx >= 0 {
		encoded = encoded[idx+1:]
	}
	encoded = lineBreaks.Replace(encoded)
	if encoded == "" {
		return domain.Image{}, apperrors.NewValidationError("No image provided", "imageBase64", "")
	}

	limit := constants.CaricatureLimits.MaxImageBytes
	if len(encoded) > base64.StdEncoding.EncodedLen(limit)+4 {
		return domain.Image{}, tooLarge(limit)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	}
	if err != nil {
		return domain.Image{}, apperrors.NewValidationError("Image is not valid base64", "imageBase64", len(encoded))
	}
	if len(data) == 0 {
		return domain.Image{}, apperrors.NewValidationError("No image provided", "imageBase64", "")
	}
	if len(data) > limit {
		return domain.Image{}, tooLarge(limit)
	}

	detected := mimetype.Detect(data)
	for _, allowed := range allowedMIMETypes {
		if detected.Is(allowed) {
			return domain.Image{
				Data:     data,
				MIMEType: allowed,
				Base64:   base64.StdEncoding.EncodeToString(data),
			}, nil
		}
	}

	return domain.Image{}, apperrors.NewValidationError(
		fmt.Sprintf("Unsupported image type %s, use JPEG or PNG", detected.String()),
		"imageBase64", detected.String())
}

func tooLarge(limit int) error {
	return apperrors.NewValidationError(
		fmt.Sprintf("Image is larger than %dMB", limit/(1024*1024)),
		"imageBase64", limit)
}
