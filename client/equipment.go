package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// EquipmentService handles equipment operations.
type EquipmentService struct {
	c *Client
}

type equipmentListResponse struct {
	Equipment []Equipment `json:"equipment"`
	HasMore   bool        `json:"has_more"`
}

func equipmentPath(id string) string {
	return "/api/v1/equipment/" + url.PathEscape(id)
}

// List returns equipment with optional filtering and pagination.
func (s *EquipmentService) List(ctx context.Context, opts *EquipmentListOptions) ([]Equipment, bool, error) {
	var resp equipmentListResponse
	if err := s.c.get(ctx, "/api/v1/equipment", opts.values(), &resp); err != nil {
		return nil, false, err
	}
	return resp.Equipment, resp.HasMore, nil
}

// Get returns a single equipment by ID.
func (s *EquipmentService) Get(ctx context.Context, id string) (*Equipment, error) {
	var e Equipment
	if err := s.c.get(ctx, equipmentPath(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create creates a new equipment.
func (s *EquipmentService) Create(ctx context.Context, req *CreateEquipmentRequest) (*Equipment, error) {
	var e Equipment
	if err := s.c.post(ctx, "/api/v1/equipment", req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update replaces the document of an existing equipment.
func (s *EquipmentService) Update(ctx context.Context, id string, req *UpdateEquipmentRequest) (*Equipment, error) {
	var e Equipment
	if err := s.c.put(ctx, equipmentPath(id), req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes an equipment and its memberships.
func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, equipmentPath(id), nil, nil)
}

// Groups returns the IDs of the groups the equipment belongs to.
func (s *EquipmentService) Groups(ctx context.Context, id string) ([]string, error) {
	var resp struct {
		GroupIDs []string `json:"group_ids"`
	}
	if err := s.c.get(ctx, equipmentPath(id)+"/groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.GroupIDs, nil
}

// History returns the equipment's field history, newest first.
func (s *EquipmentService) History(ctx context.Context, id string, f *HistoryFilter) ([]HistoryEntry, error) {
	var resp struct {
		History []HistoryEntry `json:"history"`
	}
	if err := s.c.get(ctx, equipmentPath(id)+"/history", f.values(), &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// ExportHistory returns the filtered history as an XLSX workbook.
func (s *EquipmentService) ExportHistory(ctx context.Context, id string, f *HistoryFilter) ([]byte, error) {
	return s.c.raw(ctx, equipmentPath(id)+"/history/export", f.values())
}

// UploadImage replaces the equipment image.
func (s *EquipmentService) UploadImage(ctx context.Context, id, filename string, r io.Reader) (*Equipment, error) {
	var e Equipment
	if err := s.c.upload(ctx, equipmentPath(id)+"/image", filename, r, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteImage removes the equipment image.
func (s *EquipmentService) DeleteImage(ctx context.Context, id string) (*Equipment, error) {
	var e Equipment
	if err := s.c.del(ctx, equipmentPath(id)+"/image", nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// upload posts r as the multipart "image" field.
func (c *Client) upload(ctx context.Context, path, filename string, r io.Reader, result any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	respBody, status, err := c.send(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	if status >= 400 {
		return parseAPIError(status, respBody)
	}
	return decodeJSON(respBody, result)
}
