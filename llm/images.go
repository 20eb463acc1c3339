// Package llm - image generation surface
package llm

import "context"

// ImageRequest asks for generated images.
type ImageRequest struct {
	Prompt string
	// N is the image count; 0 means 1.
	N int
	// Size is "WxH" ("1024x1024"); empty means vendor default.
	Size string
	// Quality is a vendor quality tier ("standard", "hd", "low", "high").
	Quality string
	// Style is a vendor style tag ("vivid", "natural").
	Style string
	// ResponseFormat selects "url" or "b64_json"; empty means vendor default.
	ResponseFormat string
}

// ImageEditRequest asks for an edit of an existing image.
type ImageEditRequest struct {
	ImageRequest
	Image []byte
	// Mask marks the editable region; optional.
	Mask []byte
}

// ImageVariationRequest asks for variations of an existing image.
type ImageVariationRequest struct {
	Image          []byte
	N              int
	Size           string
	ResponseFormat string
}

// GeneratedImage is one output image, as a URL or inline bytes depending on
// the requested response format.
type GeneratedImage struct {
	URL string
	// Data is the decoded image when the vendor returned b64_json.
	Data []byte
	// RevisedPrompt is the vendor's rewritten prompt when supplied.
	RevisedPrompt string
}

// ImageResponse is a batch of generated images.
type ImageResponse struct {
	CreatedAt int64
	Images    []GeneratedImage
}

// ImageGenerator is the image surface. Providers publish the sizes and
// formats they accept.
type ImageGenerator interface {
	SupportedSizes() []string
	SupportedFormats() []string

	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
	EditImage(ctx context.Context, req ImageEditRequest) (*ImageResponse, error)
	ImageVariation(ctx context.Context, req ImageVariationRequest) (*ImageResponse, error)
}
