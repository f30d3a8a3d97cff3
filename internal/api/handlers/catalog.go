package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/cider/internal/catalog"
	"github.com/donaldgifford/cider/internal/transport"
)

// CatalogHandler proxies search and fetch calls to the catalog API.
type CatalogHandler struct {
	client catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(client catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{client: client}
}

// SearchInput holds the query parameters of the search endpoint.
type SearchInput struct {
	Term  string   `query:"term"  required:"true" minLength:"1" doc:"Search term" example:"daft punk"`
	Limit int      `query:"limit" minimum:"0" maximum:"25" doc:"Maximum results per type (0 = API default)" example:"10"`
	Types []string `query:"types" doc:"Comma-separated media types to search" example:"albums,songs"`
}

// FetchInput identifies a catalog resource.
type FetchInput struct {
	Type    string   `path:"type" enum:"artists,albums,songs,playlists,music-videos" doc:"Media type"`
	ID      string   `path:"id" minLength:"1" doc:"Catalog identifier" example:"1440857781"`
	Include []string `query:"include" doc:"Comma-separated relationships to include" example:"artists,tracks"`
}

// CatalogOutput carries the raw catalog API response.
type CatalogOutput struct {
	Body json.RawMessage
}

// Search proxies a catalog search.
func (h *CatalogHandler) Search(ctx context.Context, input *SearchInput) (*CatalogOutput, error) {
	types := make([]catalog.MediaType, 0, len(input.Types))
	for _, raw := range input.Types {
		mt, err := catalog.ParseMediaType(raw)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		types = append(types, mt)
	}

	body, err := h.client.Search(ctx, catalog.SearchQuery{
		Term:  input.Term,
		Limit: input.Limit,
		Types: types,
	})
	if err != nil {
		return nil, upstreamError(err)
	}
	return &CatalogOutput{Body: body}, nil
}

// Fetch proxies a catalog resource lookup.
func (h *CatalogHandler) Fetch(ctx context.Context, input *FetchInput) (*CatalogOutput, error) {
	include := make([]catalog.Include, len(input.Include))
	for i, inc := range input.Include {
		include[i] = catalog.Include(inc)
	}

	body, err := h.client.Fetch(ctx, catalog.FetchQuery{
		Type:    catalog.MediaType(input.Type),
		ID:      input.ID,
		Include: include,
	})
	if err != nil {
		return nil, upstreamError(err)
	}
	return &CatalogOutput{Body: body}, nil
}

func upstreamError(err error) error {
	var apiErr *catalog.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return huma.Error404NotFound("catalog resource not found")
	case errors.Is(err, catalog.ErrUnknownMediaType):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, catalog.ErrMissingUserToken):
		return huma.Error401Unauthorized("user token required")
	case errors.Is(err, transport.ErrNotCached):
		return huma.Error503ServiceUnavailable("response not cached and network loading is disabled")
	default:
		return huma.Error502BadGateway("catalog API error: " + err.Error())
	}
}

// RegisterCatalogRoutes registers the catalog endpoints with the Huma API.
func RegisterCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-catalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the catalog",
		Description: "Proxies a term search to the catalog API and returns the raw response.",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Search)

	huma.Register(api, huma.Operation{
		OperationID: "fetch-catalog-resource",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/{type}/{id}",
		Summary:     "Fetch a catalog resource",
		Description: "Proxies a lookup of a single artist, album, song, playlist, or music video.",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.Fetch)
}
