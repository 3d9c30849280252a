package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geoatlas/cmr-mcp/internal/cmr"
)

// render.go turns parsed catalog records into the human-readable text the
// tools return. Formatters compose only the fields that are present; they
// never reach back into raw catalog data.

// renderCollection renders one collection block. A record that lost its
// summary metadata upstream renders as the empty string so sibling records
// and their separators survive.
func renderCollection(c cmr.Collection) string {
	if !c.HasSummary() {
		return ""
	}
	return fmt.Sprintf("ConceptID: %s\nDescription: %s\nShortname: %s",
		c.ConceptID, c.Abstract, c.ShortName)
}

// renderGranule renders one granule block from whatever fields are present.
// A granule that yielded nothing still renders a minimal ConceptID line.
func renderGranule(g cmr.Granule) string {
	conceptID := g.ConceptID
	if conceptID == "" {
		conceptID = "Unknown"
	}

	lines := []string{"ConceptID: " + conceptID}

	switch {
	case g.TimeStart != "" && g.TimeEnd != "":
		lines = append(lines, fmt.Sprintf("Temporal: %s to %s", g.TimeStart, g.TimeEnd))
	case g.TimeStart != "":
		lines = append(lines, "Temporal: "+g.TimeStart)
	}

	if g.HasSize {
		lines = append(lines, fmt.Sprintf("Size: %.2f MB", g.SizeMB))
	}

	switch {
	case len(g.DataLinks) == 1:
		lines = append(lines, "Data Link: "+g.DataLinks[0])
	case len(g.DataLinks) > 1:
		lines = append(lines, "Data Links:")
		for _, link := range g.DataLinks {
			lines = append(lines, "  - "+link)
		}
	}

	return strings.Join(lines, "\n")
}

// renderManifest builds the download report: a header plus one line per
// downloaded file. Files pair positionally with the granules that produced
// them, truncated to the shorter list.
func renderManifest(granules []cmr.Granule, files []string, dir string) string {
	n := len(files)
	if len(granules) < n {
		n = len(granules)
	}

	lines := make([]string, 0, n+1)
	lines = append(lines, fmt.Sprintf("Downloaded %d file(s) to %s:", n, dir))
	for i := 0; i < n; i++ {
		lines = append(lines, renderManifestLine(granules[i], files[i]))
	}
	return strings.Join(lines, "\n")
}

// manifestPlaceholder replaces a manifest line that could not be formatted.
const manifestPlaceholder = "(entry unavailable)"

// renderManifestLine renders one manifest entry: concept id, file name, and
// size in MB where determinable. Degrades to a placeholder instead of
// failing the whole response.
func renderManifestLine(g cmr.Granule, path string) string {
	name := filepath.Base(path)
	if path == "" || name == "." || name == string(filepath.Separator) {
		return manifestPlaceholder
	}

	conceptID := g.ConceptID
	if conceptID == "" {
		conceptID = "Unknown"
	}

	if info, err := os.Stat(path); err == nil {
		sizeMB := float64(info.Size()) / (1024 * 1024)
		return fmt.Sprintf("%s: %s (%.2f MB)", conceptID, name, sizeMB)
	}
	return fmt.Sprintf("%s: %s", conceptID, name)
}
