// Package openai - image generation endpoints
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"
)

const DefaultImageModel = "dall-e-3"

// SupportedSizes lists the accepted image dimensions.
func (p *Provider) SupportedSizes() []string {
	return []string{"256x256", "512x512", "1024x1024", "1792x1024", "1024x1792"}
}

// SupportedFormats lists the accepted response formats.
func (p *Provider) SupportedFormats() []string {
	return []string{"url", "b64_json"}
}

type imageGenRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type imageResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// GenerateImage renders images from a prompt.
func (p *Provider) GenerateImage(ctx context.Context, req llm.ImageRequest) (*llm.ImageResponse, error) {
	if req.Prompt == "" {
		return nil, &llm.InvalidRequestError{Message: "openai: image request has no prompt"}
	}
	body, err := json.Marshal(imageGenRequest{
		Model:          DefaultImageModel,
		Prompt:         req.Prompt,
		N:              req.N,
		Size:           req.Size,
		Quality:        req.Quality,
		Style:          req.Style,
		ResponseFormat: req.ResponseFormat,
	})
	if err != nil {
		return nil, &llm.GenericError{Message: "marshal image request: " + err.Error()}
	}
	raw, err := p.sink.PostJSON(ctx, "/images/generations", body)
	if err != nil {
		return nil, err
	}
	return parseImageResponse(raw)
}

// EditImage edits an existing image, optionally masked. The edit endpoint
// only accepts dall-e-2.
func (p *Provider) EditImage(ctx context.Context, req llm.ImageEditRequest) (*llm.ImageResponse, error) {
	if len(req.Image) == 0 {
		return nil, &llm.InvalidRequestError{Message: "openai: image edit has no source image"}
	}
	fields := map[string]string{
		"model":  "dall-e-2",
		"prompt": req.Prompt,
	}
	addImageFields(fields, req.N, req.Size, req.ResponseFormat)
	files := []transport.FormFile{{Field: "image", Filename: "image.png", MimeType: "image/png", Data: req.Image}}
	if len(req.Mask) > 0 {
		files = append(files, transport.FormFile{Field: "mask", Filename: "mask.png", MimeType: "image/png", Data: req.Mask})
	}
	raw, err := p.sink.PostForm(ctx, "/images/edits", transport.Form{Fields: fields, Files: files})
	if err != nil {
		return nil, err
	}
	return parseImageResponse(raw)
}

// ImageVariation produces variations of an existing image (dall-e-2 only).
func (p *Provider) ImageVariation(ctx context.Context, req llm.ImageVariationRequest) (*llm.ImageResponse, error) {
	if len(req.Image) == 0 {
		return nil, &llm.InvalidRequestError{Message: "openai: image variation has no source image"}
	}
	fields := map[string]string{"model": "dall-e-2"}
	addImageFields(fields, req.N, req.Size, req.ResponseFormat)
	raw, err := p.sink.PostForm(ctx, "/images/variations", transport.Form{
		Fields: fields,
		Files:  []transport.FormFile{{Field: "image", Filename: "image.png", MimeType: "image/png", Data: req.Image}},
	})
	if err != nil {
		return nil, err
	}
	return parseImageResponse(raw)
}

func addImageFields(fields map[string]string, n int, size, format string) {
	if n > 0 {
		fields["n"] = fmt.Sprintf("%d", n)
	}
	if size != "" {
		fields["size"] = size
	}
	if format != "" {
		fields["response_format"] = format
	}
}

func parseImageResponse(raw []byte) (*llm.ImageResponse, error) {
	var resp imageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed image response", Raw: string(raw)}
	}
	out := &llm.ImageResponse{CreatedAt: resp.Created}
	for _, d := range resp.Data {
		img := llm.GeneratedImage{URL: d.URL, RevisedPrompt: d.RevisedPrompt}
		if d.B64JSON != "" {
			data, err := base64.StdEncoding.DecodeString(d.B64JSON)
			if err != nil {
				return nil, &llm.ResponseFormatError{Message: "openai: image b64_json is not valid base64"}
			}
			img.Data = data
		}
		out.Images = append(out.Images, img)
	}
	return out, nil
}
