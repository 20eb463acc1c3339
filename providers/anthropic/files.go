// Package anthropic - files API
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"
)

type fileListResponse struct {
	Data    []json.RawMessage `json:"data"`
	FirstID string            `json:"first_id"`
	LastID  string            `json:"last_id"`
	HasMore bool              `json:"has_more"`
}

// UploadFile uploads via multipart form. The field name "file" follows the
// vendor examples.
func (p *Provider) UploadFile(ctx context.Context, req llm.FileUploadRequest) (*llm.FileObject, error) {
	if len(req.Data) == 0 {
		return nil, &llm.InvalidRequestError{Message: "anthropic: file upload has no data"}
	}
	form := transport.Form{
		Files: []transport.FormFile{{
			Field:    "file",
			Filename: req.Filename,
			MimeType: req.MimeType,
			Data:     req.Data,
		}},
	}
	raw, err := p.fileSink.PostForm(ctx, "/v1/files", form)
	if err != nil {
		return nil, err
	}
	f, err := llm.FileObjectFromAnthropic(raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFiles lists uploaded files with cursor pagination.
func (p *Provider) ListFiles(ctx context.Context, query *llm.FileListQuery) (*llm.FileList, error) {
	path := "/v1/files"
	if query != nil {
		q := url.Values{}
		if query.Limit > 0 {
			q.Set("limit", fmt.Sprintf("%d", query.Limit))
		}
		if query.After != "" {
			q.Set("after_id", query.After)
		}
		if query.Before != "" {
			q.Set("before_id", query.Before)
		}
		if enc := q.Encode(); enc != "" {
			path += "?" + enc
		}
	}
	raw, err := p.fileSink.GetJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	var resp fileListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "anthropic: malformed file list", Raw: string(raw)}
	}
	list := &llm.FileList{
		FirstID: resp.FirstID,
		LastID:  resp.LastID,
		HasMore: resp.HasMore,
	}
	for _, item := range resp.Data {
		f, err := llm.FileObjectFromAnthropic(item)
		if err != nil {
			return nil, err
		}
		list.Files = append(list.Files, f)
	}
	return list, nil
}

// RetrieveFile fetches one file's metadata.
func (p *Provider) RetrieveFile(ctx context.Context, id string) (*llm.FileObject, error) {
	raw, err := p.fileSink.GetJSON(ctx, "/v1/files/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	f, err := llm.FileObjectFromAnthropic(raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFile removes an uploaded file.
func (p *Provider) DeleteFile(ctx context.Context, id string) error {
	return p.fileSink.Delete(ctx, "/v1/files/"+url.PathEscape(id))
}

// GetFileContent downloads a file's bytes. Only downloadable files succeed;
// the vendor rejects the rest.
func (p *Provider) GetFileContent(ctx context.Context, id string) ([]byte, error) {
	return p.fileSink.GetBytes(ctx, "/v1/files/"+url.PathEscape(id)+"/content")
}
