// Package filex has filesystem helpers for the SQLite backend.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SQLiteFilePath returns the database file named by a SQLite DSN such as
// "file:data/gophreg.db?_pragma=busy_timeout(5000)" or "gophreg.db".
// In-memory databases have no file and yield "".
func SQLiteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		if strings.Contains(path[i:], "mode=memory") {
			return ""
		}
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
