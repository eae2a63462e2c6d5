package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recordshopapp/recordshop-server/internal/service"
)

func (s *Server) registerAlbumRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums",
		Summary:     "List albums",
		Tags:        []string{"Albums"},
	}, s.handleListAlbums)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAlbum",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Get album",
		Tags:        []string{"Albums"},
	}, s.handleGetAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "createAlbum",
		Method:      http.MethodPost,
		Path:        "/api/v1/albums",
		Summary:     "Create album",
		Description: "Adds an album to the catalog. Requires a signed-in session and a matching bearer token.",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAlbum",
		Method:      http.MethodPatch,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Update album",
		Description: "Edits album fields. The last-purchased marker is maintained by the purchase ledger and cannot be set here.",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAlbum",
		Method:      http.MethodDelete,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Delete album",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAlbum)
}

// === DTOs ===

// CreateAlbumRequest is the request body for album creation.
type CreateAlbumRequest struct {
	Title     string `json:"title" validate:"required,max=200" doc:"Album title"`
	Performer string `json:"performer" validate:"required,max=200" doc:"Performing artist"`
	Cost      int64  `json:"cost" validate:"required,gt=0" doc:"Price in the smallest currency unit"`
}

// CreateAlbumInput wraps the create request for Huma.
type CreateAlbumInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateAlbumRequest
}

// UpdateAlbumRequest is the request body for album updates.
// Absent fields are left untouched.
type UpdateAlbumRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=200" doc:"New album title"`
	Performer *string `json:"performer,omitempty" validate:"omitempty,min=1,max=200" doc:"New performing artist"`
	Cost      *int64  `json:"cost,omitempty" validate:"omitempty,gt=0" doc:"New price"`
}

// UpdateAlbumInput wraps the update request for Huma.
type UpdateAlbumInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
	Body          UpdateAlbumRequest
}

// DeleteAlbumInput identifies an album to delete.
type DeleteAlbumInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
}

// AlbumIDInput identifies an album by path parameter.
type AlbumIDInput struct {
	ID string `path:"id" doc:"Album ID"`
}

// AlbumResponse contains album information in API responses.
type AlbumResponse struct {
	ID              string     `json:"id" doc:"Album ID"`
	Title           string     `json:"title" doc:"Album title"`
	Performer       string     `json:"performer" doc:"Performing artist"`
	Cost            int64      `json:"cost" doc:"Price in the smallest currency unit"`
	LastPurchasedAt *time.Time `json:"last_purchased_at,omitempty" doc:"Creation time of the latest purchase of this album"`
	LastPurchasedBy string     `json:"last_purchased_by,omitempty" doc:"Account behind the latest purchase"`
	CreatedAt       time.Time  `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt       time.Time  `json:"updated_at" doc:"Last update timestamp"`
}

// AlbumOutput wraps a single album response for Huma.
type AlbumOutput struct {
	Body AlbumResponse
}

// AlbumListOutput wraps an album list response for Huma.
type AlbumListOutput struct {
	Body []AlbumResponse
}

// === Handlers ===

func (s *Server) handleListAlbums(ctx context.Context, _ *struct{}) (*AlbumListOutput, error) {
	albums, err := s.services.Albums.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AlbumResponse, 0, len(albums))
	for _, album := range albums {
		out = append(out, mapAlbum(album))
	}

	return &AlbumListOutput{Body: out}, nil
}

func (s *Server) handleGetAlbum(ctx context.Context, input *AlbumIDInput) (*AlbumOutput, error) {
	album, err := s.services.Albums.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbum(album)}, nil
}

func (s *Server) handleCreateAlbum(ctx context.Context, input *CreateAlbumInput) (*AlbumOutput, error) {
	if _, err := s.requireAccount(ctx, input.Authorization); err != nil {
		return nil, err
	}

	album, err := s.services.Albums.Create(ctx, service.CreateAlbumRequest{
		Title:     input.Body.Title,
		Performer: input.Body.Performer,
		Cost:      input.Body.Cost,
	})
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbum(album)}, nil
}

func (s *Server) handleUpdateAlbum(ctx context.Context, input *UpdateAlbumInput) (*AlbumOutput, error) {
	if _, err := s.requireAccount(ctx, input.Authorization); err != nil {
		return nil, err
	}

	album, err := s.services.Albums.Update(ctx, input.ID, service.UpdateAlbumRequest{
		Title:     input.Body.Title,
		Performer: input.Body.Performer,
		Cost:      input.Body.Cost,
	})
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbum(album)}, nil
}

func (s *Server) handleDeleteAlbum(ctx context.Context, input *DeleteAlbumInput) (*MessageOutput, error) {
	if _, err := s.requireAccount(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Albums.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Album deleted"}}, nil
}
