package zotero

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/papergrep-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.MetadataSource = (*Source)(nil)

const (
	libraryDB      = "zotero.sqlite"
	betterBibTeXDB = "better-bibtex.sqlite"
)

// Source reads Zotero's library database and maps PDF attachment file
// names to bibliographic metadata.
type Source struct{}

// NewSource creates a new Zotero metadata source.
func NewSource() *Source {
	return &Source{}
}

// BuildIndex reads the Zotero database under dataDir and returns the
// file name index. The citation key comes from Better BibTeX when
// that database is present, else it falls back to the Zotero item
// key. Only PDF attachments are indexed.
func (s *Source) BuildIndex(ctx context.Context, dataDir string) (driven.MetadataIndex, error) {
	dbPath := filepath.Join(dataDir, libraryDB)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: zotero database at %s", domain.ErrNotFound, dbPath)
	}

	db, cleanup, err := openCopy(dbPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	citekeys := s.loadCitekeys(ctx, filepath.Join(dataDir, betterBibTeXDB))

	attachments, err := loadAttachments(ctx, db)
	if err != nil {
		return nil, err
	}

	index := driven.MetadataIndex{}
	for _, att := range attachments {
		fileName := attachmentFileName(att.path)
		if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
			continue
		}

		// Bibliographic fields live on the parent item; a standalone
		// attachment is its own item.
		itemID, itemKey := att.itemID, att.itemKey
		if att.parentID.Valid && att.parentKey.Valid {
			itemID, itemKey = att.parentID.Int64, att.parentKey.String
		}

		title, err := itemField(ctx, db, itemID, "title")
		if err != nil {
			return nil, err
		}
		date, err := itemField(ctx, db, itemID, "date")
		if err != nil {
			return nil, err
		}
		authors, err := itemAuthors(ctx, db, itemID)
		if err != nil {
			return nil, err
		}

		citekey, ok := citekeys[itemKey]
		if !ok {
			citekey = itemKey
		}

		index[fileName] = &domain.ZoteroMetadata{
			Citekey:          citekey,
			Title:            title,
			Year:             extractYear(date),
			Authors:          authors,
			ZoteroLink:       domain.SelectLink(itemKey),
			PDFAttachmentKey: att.attachmentKey,
		}
	}

	return index, nil
}

// loadCitekeys reads the Better BibTeX citation key table. The
// database is optional and best-effort: any failure just means item
// keys serve as citation keys.
func (s *Source) loadCitekeys(ctx context.Context, dbPath string) map[string]string {
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}

	db, cleanup, err := openCopy(dbPath)
	if err != nil {
		logger.Warn("Better BibTeX database unavailable: %v", err)
		return nil
	}
	defer cleanup()

	rows, err := db.QueryContext(ctx, "SELECT itemKey, citationKey FROM citationkey")
	if err != nil {
		logger.Warn("Better BibTeX citation keys unavailable: %v", err)
		return nil
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	keys := map[string]string{}
	for rows.Next() {
		var itemKey, citekey string
		if err := rows.Scan(&itemKey, &citekey); err != nil {
			logger.Warn("Better BibTeX citation keys unavailable: %v", err)
			return nil
		}
		keys[itemKey] = citekey
	}
	if err := rows.Err(); err != nil {
		logger.Warn("Better BibTeX citation keys unavailable: %v", err)
		return nil
	}
	return keys
}

// openCopy copies a database file into the temp directory and opens
// the copy read-only. Zotero keeps the originals locked while it
// runs. The returned cleanup closes the connection and removes the
// copy.
func openCopy(dbPath string) (*sql.DB, func(), error) {
	tempPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("papergrep-%s-%s", uuid.NewString(), filepath.Base(dbPath)))
	if err := copyFile(dbPath, tempPath); err != nil {
		return nil, nil, fmt.Errorf("copy database: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+tempPath+"?mode=ro&immutable=1")
	if err != nil {
		os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return nil, nil, fmt.Errorf("open database copy: %w", err)
	}

	cleanup := func() {
		db.Close()          //nolint:errcheck // read-only handle
		os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
	}
	return db, cleanup, nil
}

// copyFile copies src to dst, truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only handle

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()    //nolint:errcheck // already failing
		os.Remove(dst) //nolint:errcheck // best-effort cleanup
		return err
	}
	return out.Close()
}

// attachment is one row of the attachment listing.
type attachment struct {
	itemID        int64
	itemKey       string
	attachmentKey string
	path          string
	parentID      sql.NullInt64
	parentKey     sql.NullString
}

// loadAttachments lists every attachment with a path, joined to its
// parent item when one exists.
func loadAttachments(ctx context.Context, db *sql.DB) ([]attachment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT items.itemID, items.key, itemAttachments.path,
		        itemAttachments.parentItemID, parent.key
		 FROM items
		 JOIN itemAttachments ON items.itemID = itemAttachments.itemID
		 LEFT JOIN items AS parent ON itemAttachments.parentItemID = parent.itemID
		 WHERE itemAttachments.path IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var attachments []attachment
	for rows.Next() {
		var att attachment
		if err := rows.Scan(&att.itemID, &att.itemKey, &att.path, &att.parentID, &att.parentKey); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		att.attachmentKey = att.itemKey
		attachments = append(attachments, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return attachments, nil
}

// itemField reads one named field value for an item, empty when the
// item has no such field.
func itemField(ctx context.Context, db *sql.DB, itemID int64, fieldName string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT itemDataValues.value
		 FROM itemData
		 JOIN fields ON itemData.fieldID = fields.fieldID
		 JOIN itemDataValues ON itemData.valueID = itemDataValues.valueID
		 WHERE itemData.itemID = ? AND fields.fieldName = ?`,
		itemID, fieldName).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query field %s: %w", fieldName, err)
	}
	return value, nil
}

// itemAuthors reads an item's creators in order and joins them into
// one prose list.
func itemAuthors(ctx context.Context, db *sql.DB, itemID int64) (string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT creators.firstName, creators.lastName
		 FROM creators
		 JOIN itemCreators ON creators.creatorID = itemCreators.creatorID
		 WHERE itemCreators.itemID = ?
		 ORDER BY itemCreators.orderIndex`,
		itemID)
	if err != nil {
		return "", fmt.Errorf("query creators: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var names []string
	for rows.Next() {
		var first, last sql.NullString
		if err := rows.Scan(&first, &last); err != nil {
			return "", fmt.Errorf("scan creator: %w", err)
		}
		name := strings.TrimSpace(strings.TrimSpace(first.String) + " " + strings.TrimSpace(last.String))
		if name != "" {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate creators: %w", err)
	}
	return joinAuthors(names), nil
}

// joinAuthors renders an ordered name list as prose: "A", "A and B",
// "A, B, and C".
func joinAuthors(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// attachmentFileName extracts the bare file name from an attachment
// path. Stored attachments look like "storage:paper.pdf"; linked
// attachments carry a filesystem path.
func attachmentFileName(path string) string {
	if idx := strings.LastIndex(path, ":"); idx >= 0 {
		return path[idx+1:]
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// extractYear pulls the first plausible 4-digit year out of a Zotero
// date value, which can look like "2023-01-00 01/2023" or just
// "2023".
func extractYear(date string) string {
	for _, part := range strings.FieldsFunc(date, func(r rune) bool {
		return !unicode.IsDigit(r)
	}) {
		if len(part) == 4 {
			return part
		}
	}
	return ""
}
