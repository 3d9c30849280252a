package cmr

import (
	"strings"

	"github.com/tidwall/gjson"
)

// parse.go converts CMR UMM-JSON search responses into record types.
// Every field is best-effort: an absent or malformed field leaves the zero
// value (or HasSize=false) rather than failing the record or the batch.

// dataLinkTypes are the RelatedUrls types that point at downloadable files.
// Everything else (landing pages, visualizations, service APIs) is ignored.
var dataLinkTypes = map[string]bool{
	"GET DATA":                   true,
	"GET DATA VIA DIRECT ACCESS": true,
}

// parseCollections extracts collection records from a UMM-JSON body.
func parseCollections(body []byte) []Collection {
	items := gjson.GetBytes(body, "items")
	if !items.Exists() {
		return nil
	}

	var collections []Collection
	items.ForEach(func(_, item gjson.Result) bool {
		collections = append(collections, Collection{
			ConceptID: item.Get("meta.concept-id").String(),
			Abstract:  item.Get("umm.Abstract").String(),
			ShortName: item.Get("umm.ShortName").String(),
		})
		return true
	})
	return collections
}

// parseGranules extracts granule records from a UMM-JSON body.
func parseGranules(body []byte) []Granule {
	items := gjson.GetBytes(body, "items")
	if !items.Exists() {
		return nil
	}

	var granules []Granule
	items.ForEach(func(_, item gjson.Result) bool {
		granules = append(granules, parseGranule(item))
		return true
	})
	return granules
}

// parseGranule extracts one granule. Each field is independent: a missing
// temporal extent does not affect size or links.
func parseGranule(item gjson.Result) Granule {
	g := Granule{
		ConceptID: item.Get("meta.concept-id").String(),
		TimeStart: item.Get("umm.TemporalExtent.RangeDateTime.BeginningDateTime").String(),
		TimeEnd:   item.Get("umm.TemporalExtent.RangeDateTime.EndingDateTime").String(),
	}

	// Single-instant granules carry SingleDateTime instead of a range.
	if g.TimeStart == "" {
		g.TimeStart = item.Get("umm.TemporalExtent.SingleDateTime").String()
	}

	g.SizeMB, g.HasSize = granuleSizeMB(item)
	g.DataLinks = granuleDataLinks(item)
	return g
}

// granuleSizeMB computes the granule size in megabytes from archive and
// distribution information, preferring byte counts over unit-tagged sizes.
func granuleSizeMB(item gjson.Result) (float64, bool) {
	info := item.Get("umm.DataGranule.ArchiveAndDistributionInformation")
	if !info.IsArray() {
		return 0, false
	}

	var totalMB float64
	found := false
	info.ForEach(func(_, entry gjson.Result) bool {
		if bytes := entry.Get("SizeInBytes"); bytes.Exists() {
			totalMB += bytes.Float() / (1024 * 1024)
			found = true
			return true
		}
		size := entry.Get("Size")
		if !size.Exists() {
			return true
		}
		switch strings.ToUpper(entry.Get("SizeUnit").String()) {
		case "KB":
			totalMB += size.Float() / 1024
		case "MB", "": // CMR defaults to MB when the unit is omitted
			totalMB += size.Float()
		case "GB":
			totalMB += size.Float() * 1024
		case "TB":
			totalMB += size.Float() * 1024 * 1024
		default:
			return true // unknown unit, skip this entry
		}
		found = true
		return true
	})

	return totalMB, found
}

// granuleDataLinks collects the downloadable URLs from RelatedUrls.
func granuleDataLinks(item gjson.Result) []string {
	urls := item.Get("umm.RelatedUrls")
	if !urls.IsArray() {
		return nil
	}

	var links []string
	urls.ForEach(func(_, entry gjson.Result) bool {
		if !dataLinkTypes[strings.ToUpper(entry.Get("Type").String())] {
			return true
		}
		if u := entry.Get("URL").String(); u != "" {
			links = append(links, u)
		}
		return true
	})
	return links
}
