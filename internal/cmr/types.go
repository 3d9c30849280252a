package cmr

import (
	"net/url"
	"strconv"
	"strings"
)

// Collection is a parsed CMR collection (dataset) record.
// Fields map the UMM-C subset the tool surface renders; a zero value means
// the field was absent upstream.
type Collection struct {
	ConceptID string
	Abstract  string
	ShortName string
}

// HasSummary reports whether the record carried the summary metadata the
// catalog is supposed to provide. Records without it are rendered as empty.
func (c Collection) HasSummary() bool {
	return c.ShortName != ""
}

// Granule is a parsed CMR granule record with explicit optional fields, so
// rendering never needs defensive lookups.
type Granule struct {
	ConceptID string

	// Temporal extent; either or both may be empty.
	TimeStart string
	TimeEnd   string

	// SizeMB is valid only when HasSize is true.
	SizeMB  float64
	HasSize bool

	// DataLinks are the GET DATA URLs, in catalog order.
	DataLinks []string
}

// TemporalRange pairs a start and stop date. Dates are opaque strings passed
// through to CMR (e.g. "2002" or "2022-03-22"); either side may be empty.
type TemporalRange struct {
	Start string
	Stop  string
}

// IsZero reports whether neither bound is set.
func (t TemporalRange) IsZero() bool {
	return t.Start == "" && t.Stop == ""
}

// cmrValue renders the range in CMR's "start,stop" query form.
func (t TemporalRange) cmrValue() string {
	return t.Start + "," + t.Stop
}

// CollectionQuery describes a collection search.
type CollectionQuery struct {
	Keyword  string
	DAAC     string
	Temporal TemporalRange
	Limit    int
}

// GranuleQuery describes a granule search. ConceptID, when set, scopes the
// search to a single collection or granule identifier.
type GranuleQuery struct {
	DAAC      string
	ShortName string
	Keyword   string
	ConceptID string
	Temporal  TemporalRange
	Limit     int
}

// daacProviders maps DAAC archive codes to the CMR provider most users mean
// when they name the organization. Codes without an entry pass through
// uppercased, which CMR treats as a provider id.
var daacProviders = map[string]string{
	"NSIDC":    "NSIDC_CPRD",
	"PODAAC":   "POCLOUD",
	"LPDAAC":   "LPCLOUD",
	"GES_DISC": "GES_DISC",
	"GESDISC":  "GES_DISC",
	"ORNLDAAC": "ORNL_CLOUD",
	"ORNL":     "ORNL_CLOUD",
	"ASDC":     "LARC_CLOUD",
	"LAADS":    "LAADS",
	"OBDAAC":   "OB_CLOUD",
	"OB_DAAC":  "OB_CLOUD",
	"GHRC":     "GHRC_DAAC",
	"SEDAC":    "SEDAC",
	"ASF":      "ASF",
}

// providerForDAAC resolves a user-supplied organization code to a CMR
// provider id.
func providerForDAAC(daac string) string {
	key := strings.ToUpper(strings.TrimSpace(daac))
	if provider, ok := daacProviders[key]; ok {
		return provider
	}
	return key
}

// values builds the CMR query parameters, including only fields that are set.
// A temporal range always travels as one paired "start,stop" value.
func (q CollectionQuery) values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.DAAC != "" {
		v.Set("provider", providerForDAAC(q.DAAC))
	}
	if !q.Temporal.IsZero() {
		v.Set("temporal", q.Temporal.cmrValue())
	}
	if q.Limit > 0 {
		v.Set("page_size", strconv.Itoa(q.Limit))
	}
	return v
}

// values builds the CMR query parameters, including only fields that are set.
func (q GranuleQuery) values() url.Values {
	v := url.Values{}
	if q.ConceptID != "" {
		v.Set("concept_id", q.ConceptID)
	}
	if q.DAAC != "" {
		v.Set("provider", providerForDAAC(q.DAAC))
	}
	if q.ShortName != "" {
		v.Set("short_name", q.ShortName)
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if !q.Temporal.IsZero() {
		v.Set("temporal", q.Temporal.cmrValue())
	}
	if q.Limit > 0 {
		v.Set("page_size", strconv.Itoa(q.Limit))
	}
	return v
}
