// Package openai - files API
package openai

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
	HasMore bool              `json:"has_more"`
}

// UploadFile uploads via multipart form with a purpose field.
func (p *Provider) UploadFile(ctx context.Context, req llm.FileUploadRequest) (*llm.FileObject, error) {
	if len(req.Data) == 0 {
		return nil, &llm.InvalidRequestError{Message: "openai: file upload has no data"}
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = llm.PurposeUserData
	}
	form := transport.Form{
		Fields: map[string]string{"purpose": string(purpose)},
		Files: []transport.FormFile{{
			Field:    "file",
			Filename: req.Filename,
			MimeType: req.MimeType,
			Data:     req.Data,
		}},
	}
	raw, err := p.sink.PostForm(ctx, "/files", form)
	if err != nil {
		return nil, err
	}
	f, err := llm.FileObjectFromOpenAI(raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFiles lists uploaded files.
func (p *Provider) ListFiles(ctx context.Context, query *llm.FileListQuery) (*llm.FileList, error) {
	path := "/files"
	if query != nil {
		q := url.Values{}
		if query.Purpose != "" {
			q.Set("purpose", string(query.Purpose))
		}
		if query.Limit > 0 {
			q.Set("limit", fmt.Sprintf("%d", query.Limit))
		}
		if query.After != "" {
			q.Set("after", query.After)
		}
		if query.Order != "" {
			q.Set("order", query.Order)
		}
		if enc := q.Encode(); enc != "" {
			path += "?" + enc
		}
	}
	raw, err := p.sink.GetJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	var resp fileListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed file list", Raw: string(raw)}
	}
	list := &llm.FileList{HasMore: resp.HasMore, Total: len(resp.Data)}
	for _, item := range resp.Data {
		f, err := llm.FileObjectFromOpenAI(item)
		if err != nil {
			return nil, err
		}
		list.Files = append(list.Files, f)
	}
	if n := len(list.Files); n > 0 {
		list.FirstID = list.Files[0].ID
		list.LastID = list.Files[n-1].ID
	}
	return list, nil
}

// RetrieveFile fetches one file's metadata.
func (p *Provider) RetrieveFile(ctx context.Context, id string) (*llm.FileObject, error) {
	raw, err := p.sink.GetJSON(ctx, "/files/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	f, err := llm.FileObjectFromOpenAI(raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFile removes an uploaded file.
func (p *Provider) DeleteFile(ctx context.Context, id string) error {
	return p.sink.Delete(ctx, "/files/"+url.PathEscape(id))
}

// GetFileContent downloads a file's bytes.
func (p *Provider) GetFileContent(ctx context.Context, id string) ([]byte, error) {
	return p.sink.GetBytes(ctx, "/files/"+url.PathEscape(id)+"/content")
}
