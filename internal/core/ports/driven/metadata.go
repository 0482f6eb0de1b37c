package driven

import (
	"context"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

// MetadataIndex maps PDF base names to bibliographic metadata. It is
// built once per request and shared read-only across all parallel
// workers, so no synchronisation is needed during fan-out.
type MetadataIndex map[string]*domain.ZoteroMetadata

// Lookup returns the metadata for a PDF base name, or nil.
func (m MetadataIndex) Lookup(fileName string) *domain.ZoteroMetadata {
	if m == nil {
		return nil
	}
	return m[fileName]
}

// MetadataSource builds a MetadataIndex from an external reference
// manager database.
type MetadataSource interface {
	// BuildIndex reads the reference database under dataDir and
	// returns the filename index. An empty dataDir yields an empty
	// index. Errors are reserved for infrastructure faults; callers
	// treat any failure as "no metadata for this request" rather
	// than failing the search.
	BuildIndex(ctx context.Context, dataDir string) (MetadataIndex, error)
}
