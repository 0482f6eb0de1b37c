// Package zotero builds bibliographic metadata indexes from a Zotero
// data directory.
//
// Zotero holds its library in zotero.sqlite and keeps the file locked
// while the application runs, so the adapter copies the database to a
// temporary file and reads the copy. The optional better-bibtex.sqlite
// database contributes citation keys when present.
package zotero
