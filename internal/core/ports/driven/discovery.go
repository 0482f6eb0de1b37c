package driven

import "context"

// FileDiscovery enumerates candidate PDF files under a directory.
type FileDiscovery interface {
	// FindPDFs recursively walks root (following symlinks) and
	// returns every regular file with a .pdf extension, case
	// insensitively. Output order is unspecified. It fails only when
	// root does not exist or is not a directory; unreadable entries
	// below the root are skipped.
	FindPDFs(ctx context.Context, root string) ([]string, error)
}
