package cmr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geoatlas/cmr-mcp/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient wires a Client against an httptest server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		SearchEndpoint: server.URL,
		AuthEndpoint:   server.URL,
		Logger:         log.NewNop(),
		HTTPClient:     server.Client(),
		RatePerSecond:  1000, // don't throttle tests
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr string
	}{
		{
			name:    "missing search endpoint",
			cfg:     ClientConfig{AuthEndpoint: "https://urs.example", Logger: log.NewNop()},
			wantErr: "search endpoint is required",
		},
		{
			name:    "missing auth endpoint",
			cfg:     ClientConfig{SearchEndpoint: "https://cmr.example", Logger: log.NewNop()},
			wantErr: "auth endpoint is required",
		},
		{
			name:    "missing logger",
			cfg:     ClientConfig{SearchEndpoint: "https://cmr.example", AuthEndpoint: "https://urs.example"},
			wantErr: "logger is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchCollections(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/vnd.nasa.cmr.umm_results+json")
		_, _ = w.Write([]byte(collectionsFixture))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	collections, err := client.SearchCollections(context.Background(), CollectionQuery{
		Keyword:  "ice",
		DAAC:     "NSIDC",
		Temporal: TemporalRange{Start: "2020", Stop: "2021"},
		Limit:    5,
	})
	require.NoError(t, err)
	require.Len(t, collections, 3)
	assert.Equal(t, "C100-NSIDC_CPRD", collections[0].ConceptID)

	assert.Equal(t, "/collections.umm_json", gotPath)
	assert.Equal(t, []string{"ice"}, gotQuery["keyword"])
	assert.Equal(t, []string{"NSIDC_CPRD"}, gotQuery["provider"])
	assert.Equal(t, []string{"2020,2021"}, gotQuery["temporal"])
	assert.Equal(t, []string{"5"}, gotQuery["page_size"])

	assert.Equal(t, clientID, gotHeaders.Get("Client-Id"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-Id"))
	assert.Empty(t, gotHeaders.Get("Authorization"), "no token configured, no auth header")
}

func TestSearchGranules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/granules.umm_json", r.URL.Path)
		assert.Equal(t, "G123-PROV", r.URL.Query().Get("concept_id"))
		_, _ = w.Write([]byte(granulesFixture))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	granules, err := client.SearchGranules(context.Background(), GranuleQuery{
		ConceptID: "G123-PROV",
		Limit:     20,
	})
	require.NoError(t, err)
	assert.Len(t, granules, 4)
}

func TestSearch_TokenAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer edl-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		SearchEndpoint: server.URL,
		AuthEndpoint:   server.URL,
		Token:          "edl-token",
		Logger:         log.NewNop(),
		HTTPClient:     server.Client(),
		RatePerSecond:  1000,
	})
	require.NoError(t, err)

	_, err = client.SearchCollections(context.Background(), CollectionQuery{Limit: 5})
	require.NoError(t, err)
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors": ["bad request"]}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.SearchCollections(context.Background(), CollectionQuery{Limit: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")

	_, err = client.SearchGranules(context.Background(), GranuleQuery{Limit: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSearch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchCollections(ctx, CollectionQuery{Limit: 5})
	require.Error(t, err)
}
