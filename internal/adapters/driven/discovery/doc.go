// Package discovery implements PDF corpus discovery over the local
// filesystem.
package discovery
