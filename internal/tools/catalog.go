// Package tools implements the catalog tool surface: collection search,
// granule search, and granule download against a CMR-style catalog.
//
// The toolset is a formatting and parameter-mapping layer. It assembles
// queries from the optional inputs that are actually present, delegates to
// the Catalog collaborator, and renders the parsed records as
// newline-delimited text. Domain failures are returned inside the Result
// envelope, never raised.
package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/geoatlas/cmr-mcp/internal/cmr"
	"github.com/geoatlas/cmr-mcp/internal/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// CatalogToolsetName is the toolset identifier constant.
const CatalogToolsetName = "catalog"

const (
	// DefaultCollectionLimit caps collection search results per call.
	DefaultCollectionLimit = 5

	// DefaultGranuleLimit caps granule search results per call. Granule
	// searches return many small records, so the cap is larger than the
	// collection one.
	DefaultGranuleLimit = 20

	// DefaultDownloadCount bounds a parameter-driven download search.
	DefaultDownloadCount = 5

	// DefaultDownloadDir receives files when the caller names no directory.
	DefaultDownloadDir = "./downloads"
)

// recordSeparator joins per-record text blocks in search responses.
const recordSeparator = "\n---\n"

// Catalog is the data-access collaborator the toolset delegates to.
// *cmr.Client satisfies it; tests substitute a fake.
type Catalog interface {
	// SearchCollections searches collections (datasets).
	SearchCollections(ctx context.Context, query cmr.CollectionQuery) ([]cmr.Collection, error)

	// SearchGranules searches granules by free parameters or concept id.
	SearchGranules(ctx context.Context, query cmr.GranuleQuery) ([]cmr.Granule, error)

	// Login authenticates against the backing service.
	Login(ctx context.Context) error

	// Authenticated reports whether login has succeeded.
	Authenticated() bool

	// Download fetches granule files into dir, returning local paths
	// ordered to match the granules that produced them.
	Download(ctx context.Context, granules []cmr.Granule, dir string) ([]string, error)
}

// CatalogToolset exposes the three catalog operations. Stateless between
// invocations; safe for concurrent use.
type CatalogToolset struct {
	catalog         Catalog
	logger          log.Logger
	tracer          trace.Tracer
	collectionLimit int
	granuleLimit    int
	downloadDir     string
}

// Option is a functional option for configuring a CatalogToolset.
type Option func(*CatalogToolset)

// WithCollectionLimit overrides the collection search result cap.
func WithCollectionLimit(limit int) Option {
	return func(ts *CatalogToolset) {
		if limit > 0 {
			ts.collectionLimit = limit
		}
	}
}

// WithGranuleLimit overrides the granule search result cap.
func WithGranuleLimit(limit int) Option {
	return func(ts *CatalogToolset) {
		if limit > 0 {
			ts.granuleLimit = limit
		}
	}
}

// WithDownloadDir overrides the directory used when a download names none.
func WithDownloadDir(dir string) Option {
	return func(ts *CatalogToolset) {
		if dir != "" {
			ts.downloadDir = dir
		}
	}
}

// NewCatalogToolset creates the toolset.
func NewCatalogToolset(catalog Catalog, logger log.Logger, opts ...Option) (*CatalogToolset, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	ts := &CatalogToolset{
		catalog:         catalog,
		logger:          logger,
		tracer:          otel.Tracer("github.com/geoatlas/cmr-mcp/internal/tools"),
		collectionLimit: DefaultCollectionLimit,
		granuleLimit:    DefaultGranuleLimit,
		downloadDir:     DefaultDownloadDir,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts, nil
}

// Name returns the toolset identifier.
func (ts *CatalogToolset) Name() string {
	return CatalogToolsetName
}

// SearchCollectionsInput defines input for the search_collections tool.
// All fields are optional.
type SearchCollectionsInput struct {
	StartDate    string `json:"startdate,omitempty" jsonschema:"Start date of the search range, like 2002 or 2022-03-22"`
	StopDate     string `json:"stopdate,omitempty" jsonschema:"Stop date of the search range, like 2002 or 2022-03-22"`
	Organization string `json:"organization,omitempty" jsonschema:"DAAC archive code to scope the search, e.g. NSIDC or PODAAC"`
	Keyword      string `json:"keyword,omitempty" jsonschema:"Free-text keyword to search collections for"`
}

// SearchGranulesInput defines input for the search_granules tool.
// All fields are optional.
type SearchGranulesInput struct {
	Organization string `json:"organization,omitempty" jsonschema:"DAAC archive code to scope the search, e.g. NSIDC or PODAAC"`
	ShortName    string `json:"short_name,omitempty" jsonschema:"Collection short name, e.g. ATL06"`
	StartDate    string `json:"startdate,omitempty" jsonschema:"Start date of the search range, like 2002 or 2022-03-22"`
	StopDate     string `json:"stopdate,omitempty" jsonschema:"Stop date of the search range, like 2002 or 2022-03-22"`
	Keyword      string `json:"keyword,omitempty" jsonschema:"Free-text keyword to search granules for"`
}

// DownloadInput defines input for the download tool. Either concept_ids or
// at least one search parameter is required.
type DownloadInput struct {
	LocalPath    string `json:"local_path,omitempty" jsonschema:"Local directory to download files into (default ./downloads)"`
	Organization string `json:"organization,omitempty" jsonschema:"DAAC archive code to scope the search, e.g. NSIDC or PODAAC"`
	ShortName    string `json:"short_name,omitempty" jsonschema:"Collection short name, e.g. ATL06"`
	ConceptIDs   string `json:"concept_ids,omitempty" jsonschema:"Comma-separated collection or granule concept identifiers to download"`
	StartDate    string `json:"startdate,omitempty" jsonschema:"Start date of the search range, like 2002 or 2022-03-22"`
	StopDate     string `json:"stopdate,omitempty" jsonschema:"Stop date of the search range, like 2002 or 2022-03-22"`
	Count        int    `json:"count,omitempty" jsonschema:"Maximum number of granules to download (default 5)"`
}

// temporal pairs a start/stop date into one range. If either date is present
// both travel together; they are never passed independently.
func temporal(start, stop string) cmr.TemporalRange {
	return cmr.TemporalRange{Start: start, Stop: stop}
}

// SearchCollections searches CMR collections and renders them as
// separator-joined text blocks. A record missing its summary metadata
// renders as an empty block; collaborator failure returns a uniform error
// string.
func (ts *CatalogToolset) SearchCollections(ctx context.Context, input SearchCollectionsInput) (Result, error) {
	ctx, span := ts.tracer.Start(ctx, "search_collections")
	defer span.End()

	query := cmr.CollectionQuery{
		Keyword:  input.Keyword,
		DAAC:     input.Organization,
		Temporal: temporal(input.StartDate, input.StopDate),
		Limit:    ts.collectionLimit,
	}

	ts.logger.Info("search_collections called",
		"keyword", input.Keyword, "organization", input.Organization)

	collections, err := ts.catalog.SearchCollections(ctx, query)
	if err != nil {
		span.RecordError(err)
		ts.logger.Error("collection search failed", "error", err)
		return failure(ErrCodeUpstream, fmt.Sprintf("Error searching collections: %v", err)), nil
	}

	blocks := make([]string, len(collections))
	for i, c := range collections {
		blocks[i] = renderCollection(c)
	}

	return success(strings.Join(blocks, recordSeparator)), nil
}

// SearchGranules searches CMR granules and renders them as separator-joined
// text blocks with best-effort per-field extraction.
func (ts *CatalogToolset) SearchGranules(ctx context.Context, input SearchGranulesInput) (Result, error) {
	ctx, span := ts.tracer.Start(ctx, "search_granules")
	defer span.End()

	query := cmr.GranuleQuery{
		DAAC:      input.Organization,
		ShortName: input.ShortName,
		Keyword:   input.Keyword,
		Temporal:  temporal(input.StartDate, input.StopDate),
		Limit:     ts.granuleLimit,
	}

	ts.logger.Info("search_granules called",
		"short_name", input.ShortName, "organization", input.Organization)

	granules, err := ts.catalog.SearchGranules(ctx, query)
	if err != nil {
		span.RecordError(err)
		ts.logger.Error("granule search failed", "error", err)
		return failure(ErrCodeUpstream, fmt.Sprintf("Error searching granules: %v", err)), nil
	}

	blocks := make([]string, len(granules))
	for i, g := range granules {
		blocks[i] = renderGranule(g)
	}

	return success(strings.Join(blocks, recordSeparator)), nil
}

// Download resolves granules from concept identifiers or a bounded search,
// downloads their files, and renders a manifest. Every failure path returns
// a user-facing error string inside the Result.
func (ts *CatalogToolset) Download(ctx context.Context, input DownloadInput) (Result, error) {
	ctx, span := ts.tracer.Start(ctx, "download")
	defer span.End()

	localPath := input.LocalPath
	if localPath == "" {
		localPath = ts.downloadDir
	}
	count := input.Count
	if count <= 0 {
		count = DefaultDownloadCount
	}

	ts.logger.Info("download called",
		"local_path", localPath, "concept_ids", input.ConceptIDs, "count", count)

	if err := ts.catalog.Login(ctx); err != nil {
		span.RecordError(err)
		return failure(ErrCodeAuth, fmt.Sprintf("Error: unable to authenticate with Earthdata Login: %v", err)), nil
	}
	if !ts.catalog.Authenticated() {
		return failure(ErrCodeAuth, "Error: unable to authenticate with Earthdata Login"), nil
	}

	granules, result := ts.resolveGranules(ctx, input, count)
	if result != nil {
		return *result, nil
	}
	if len(granules) == 0 {
		return failure(ErrCodeNotFound, "Error: no granules found matching the request"), nil
	}

	if err := os.MkdirAll(localPath, 0o750); err != nil {
		span.RecordError(err)
		return failure(ErrCodeDownload, fmt.Sprintf("Error downloading files: %v", err)), nil
	}

	files, err := ts.catalog.Download(ctx, granules, localPath)
	if err != nil {
		span.RecordError(err)
		ts.logger.Error("download failed", "error", err)
		return failure(ErrCodeDownload, fmt.Sprintf("Error downloading files: %v", err)), nil
	}
	if len(files) == 0 {
		return failure(ErrCodeDownload, "Error: no files were downloaded"), nil
	}

	return success(renderManifest(granules, files, localPath)), nil
}

// resolveGranules picks the sourcing mode: explicit concept identifiers, or
// a single bounded parameter search. Returns a non-nil Result on a
// precondition or upstream failure.
func (ts *CatalogToolset) resolveGranules(ctx context.Context, input DownloadInput, count int) ([]cmr.Granule, *Result) {
	if input.ConceptIDs != "" {
		return ts.granulesByConceptIDs(ctx, input.ConceptIDs), nil
	}

	hasSearch := input.Organization != "" || input.ShortName != "" ||
		input.StartDate != "" || input.StopDate != ""
	if !hasSearch {
		r := failure(ErrCodePrecondition,
			"Error: provide either concept_ids or search parameters (organization, short_name, or a date range)")
		return nil, &r
	}

	granules, err := ts.catalog.SearchGranules(ctx, cmr.GranuleQuery{
		DAAC:      input.Organization,
		ShortName: input.ShortName,
		Temporal:  temporal(input.StartDate, input.StopDate),
		Limit:     count,
	})
	if err != nil {
		ts.logger.Error("download search failed", "error", err)
		r := failure(ErrCodeDownload, fmt.Sprintf("Error downloading files: %v", err))
		return nil, &r
	}

	if len(granules) > count {
		granules = granules[:count]
	}
	return granules, nil
}

// granulesByConceptIDs resolves each identifier independently, accumulating
// results. A failed lookup is logged and skipped, never fatal. Results are
// not deduplicated: a collection concept id legitimately resolves to many
// granules.
func (ts *CatalogToolset) granulesByConceptIDs(ctx context.Context, conceptIDs string) []cmr.Granule {
	var granules []cmr.Granule
	for _, id := range strings.Split(conceptIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		found, err := ts.catalog.SearchGranules(ctx, cmr.GranuleQuery{
			ConceptID: id,
			Limit:     ts.granuleLimit,
		})
		if err != nil {
			ts.logger.Error("concept id lookup failed", "concept_id", id, "error", err)
			continue
		}
		granules = append(granules, found...)
	}
	return granules
}
