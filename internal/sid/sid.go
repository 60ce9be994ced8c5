// Package sid provides Stable ID calculation for AST nodes
package sid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// SID represents a Stable Identifier for an AST node
type SID string

// NewSID calculates a stable ID for an AST node
// Formula: hash(canonical_path | start_offset | end_offset | node_kind | child_path)
func NewSID(path string, start, end int, kind string, childPath []int) SID {
	// Canonicalize the path
	canonPath := canonicalizePath(path)

	// Build the hash input
	var parts []string
	parts = append(parts, canonPath)
	parts = append(parts, fmt.Sprintf("%d", start))
	parts = append(parts, fmt.Sprintf("%d", end))
	parts = append(parts, kind)

	// Add child path
	for _, idx := range childPath {
		parts = append(parts, fmt.Sprintf("%d", idx))
	}

	// Hash the combined string
	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))

	// Return first 16 hex chars for brevity
	return SID(hex.EncodeToString(hash[:])[:16])
}

// canonicalizePath normalizes a file path for stable SID calculation
func canonicalizePath(path string) string {
	// Clean the path
	path = filepath.Clean(path)

	// Resolve symlinks if possible
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	// Make path absolute if not already
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	// On case-insensitive filesystems (Windows, macOS), normalize to lowercase
	// This is for SID stability only - actual resolution uses real FS semantics
	if isCaseInsensitive() {
		path = strings.ToLower(path)
	}

	// Use forward slashes consistently
	path = filepath.ToSlash(path)

	return path
}

// isCaseInsensitive checks if we're on a case-insensitive filesystem
func isCaseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
