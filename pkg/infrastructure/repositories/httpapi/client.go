// Package httpapi talks to the remote tile and demand collection API.
// The transport is a plain JSON-over-HTTP collaborator; every call maps
// to one endpoint.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

// transport is the shared JSON-over-HTTP caller behind both clients.
type transport struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func newTransport(baseURL string, log zerolog.Logger) *transport {
	return &transport{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log.With().Str("component", "httpapi").Logger(),
	}
}

func (t *transport) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	t.log.Debug().Str("method", method).Str("path", path).Msg("api call")
	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// TileClient implements the tile repository over HTTP.
type TileClient struct {
	api *transport
}

// NewTileClient creates a TileClient for the API at baseURL.
func NewTileClient(baseURL string, log zerolog.Logger) *TileClient {
	return &TileClient{api: newTransport(baseURL, log)}
}

// Verify interface compliance
var _ repositories.TileRepository = (*TileClient)(nil)

type tileCollection struct {
	Tiles []*entities.Tile `json:"tiles"`
}

// FetchAll loads the full tile collection
func (c *TileClient) FetchAll(ctx context.Context) ([]*entities.Tile, error) {
	var tiles []*entities.Tile
	if err := c.api.call(ctx, http.MethodGet, "/tiles", nil, &tiles); err != nil {
		return nil, err
	}
	return tiles, nil
}

// Create stores one new tile via the per-entity endpoint
func (c *TileClient) Create(ctx context.Context, tile *entities.Tile) error {
	return c.api.call(ctx, http.MethodPost, "/tiles/"+url.PathEscape(tile.ID), tile, nil)
}

// SaveAll overwrites the whole collection. Kept for compatibility with
// the legacy persistence traffic; Create is the preferred path.
func (c *TileClient) SaveAll(ctx context.Context, tiles []*entities.Tile) error {
	return c.api.call(ctx, http.MethodPost, "/tiles", tileCollection{Tiles: tiles}, nil)
}

type statusRequest struct {
	Status string `json:"status"`
	Source string `json:"source"`
}

// UpdateStatus applies a per-entity status transition. The status
// travels in the project vocabulary; the server re-resolves it against
// the named source view.
func (c *TileClient) UpdateStatus(ctx context.Context, id string, stage entities.Stage, source entities.View) (*entities.Tile, error) {
	req := statusRequest{
		Status: string(stage.ProjectStatus()),
		Source: source.String(),
	}
	var tile entities.Tile
	if err := c.api.call(ctx, http.MethodPost, "/tiles/"+url.PathEscape(id)+"/status", req, &tile); err != nil {
		return nil, err
	}
	return &tile, nil
}

// Update merges a partial tile update
func (c *TileClient) Update(ctx context.Context, id string, patch entities.TilePatch) (*entities.Tile, error) {
	var tile entities.Tile
	if err := c.api.call(ctx, http.MethodPut, "/tiles/"+url.PathEscape(id), patch, &tile); err != nil {
		return nil, err
	}
	return &tile, nil
}

// DemandClient implements the demand repository over HTTP.
type DemandClient struct {
	api *transport
}

// NewDemandClient creates a DemandClient for the API at baseURL.
func NewDemandClient(baseURL string, log zerolog.Logger) *DemandClient {
	return &DemandClient{api: newTransport(baseURL, log)}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandClient)(nil)

type demandRequest struct {
	MaterialID  string          `json:"materialId"`
	RequiredQty json.RawMessage `json:"requiredQty"`
	ProjectID   string          `json:"projectId,omitempty"`
	Name        string          `json:"name,omitempty"`
}

// Create issues one purchasing demand under its tile
func (c *DemandClient) Create(ctx context.Context, demand *entities.Demand) (*entities.Demand, error) {
	qty, err := demand.RequiredQty.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding quantity: %w", err)
	}
	req := demandRequest{
		MaterialID:  demand.MaterialID,
		RequiredQty: qty,
		ProjectID:   demand.ProjectID,
		Name:        demand.Name,
	}
	var created entities.Demand
	path := "/tiles/" + url.PathEscape(demand.TileID) + "/demands"
	if err := c.api.call(ctx, http.MethodPost, path, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// List returns demands matching the filter
func (c *DemandClient) List(ctx context.Context, filter repositories.DemandFilter) ([]*entities.Demand, error) {
	q := url.Values{}
	if filter.ProjectID != "" {
		q.Set("projectId", filter.ProjectID)
	}
	if filter.TileID != "" {
		q.Set("tileId", filter.TileID)
	}
	path := "/demands"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var demands []*entities.Demand
	if err := c.api.call(ctx, http.MethodGet, path, nil, &demands); err != nil {
		return nil, err
	}
	return demands, nil
}
