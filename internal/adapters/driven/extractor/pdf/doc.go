// Package pdf implements text extraction from PDF files.
package pdf
