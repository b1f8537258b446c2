// Package fileloader parses aiosql-style .sql files (§4.9): zero or more
// named statements delimited by "-- name: <identifier>" header lines,
// loaded with a checksum-validated cache so re-parsing is only paid when
// the file's content actually changed, mirroring the way the teacher's
// query.LoadIntermediateFormat dispatches by file extension and the
// markdownparser package walks a file line-by-line collecting state.
package fileloader

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/cache"
)

// nameHeader matches "-- name: identifier" lines per §6's file format:
// ^\s*--\s*name\s*:\s*(?<name>[A-Za-z_][A-Za-z0-9_.]*)\s*$
var nameHeader = regexp.MustCompile(`^\s*--\s*name\s*:\s*([A-Za-z_][A-Za-z0-9_.]*)\s*$`)

// CachedSQLFile is a checksum-validated parse result for a single file.
type CachedSQLFile struct {
	Path       string
	Checksum   string
	Statements map[string]string
}

// Loader loads and caches parsed .sql files. The zero value is usable; it
// runs uncached (every call re-parses).
type Loader struct {
	store *cache.Store[*CachedSQLFile]
}

// New builds a Loader whose file cache uses capacity (<=0 disables it).
func New(capacity int) (*Loader, error) {
	store, err := cache.NewStore[*CachedSQLFile]("file", capacity)
	if err != nil {
		return nil, err
	}
	return &Loader{store: store}, nil
}

// LoadPath parses a single file into name -> raw SQL. A file with no
// "-- name:" headers returns an empty map and no error, per §8 invariant 8.
// The cache key folds in the file's content checksum, so an edited file
// naturally misses the cache and is re-parsed; an unchanged file is parsed
// once regardless of how many times LoadPath is called.
func (l *Loader) LoadPath(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := checksum(data)
	key := cacheKey(path, sum)

	compute := func() (*CachedSQLFile, error) {
		statements, err := parseStatements(path, data)
		if err != nil {
			return nil, err
		}
		return &CachedSQLFile{Path: path, Checksum: sum, Statements: statements}, nil
	}

	if l.store == nil {
		cached, err := compute()
		if err != nil {
			return nil, err
		}
		return cached.Statements, nil
	}

	cached, err := l.store.GetOrCompute(key, compute)
	if err != nil {
		return nil, err
	}
	return cached.Statements, nil
}

// LoadDirectory walks root, loading every .sql file into a namespace tree:
// subdirectories form dotted namespaces (e.g. "users/queries.sql" becomes
// namespace "users").
func (l *Loader) LoadDirectory(root string) (map[string]map[string]string, error) {
	result := make(map[string]map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".sql" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		ns := namespaceFor(rel)
		statements, err := l.LoadPath(path)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			return nil
		}
		if result[ns] == nil {
			result[ns] = make(map[string]string)
		}
		for name, body := range statements {
			result[ns][name] = body
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func namespaceFor(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return ""
	}
	return strings.ReplaceAll(dir, string(filepath.Separator), ".")
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func cacheKey(path, sum string) uint64 {
	h := xxhash.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(sum))
	return h.Sum64()
}

// parseStatements scans lines for name headers and accumulates body text
// until the next header or EOF.
func parseStatements(path string, data []byte) (map[string]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	statements := make(map[string]string)
	var currentName string
	var body strings.Builder
	lineNo := 0
	hasHeader := false

	flush := func() {
		if currentName == "" {
			return
		}
		statements[currentName] = strings.TrimSpace(body.String())
		body.Reset()
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if isHeaderLine(line) {
			hasHeader = true
			m := nameHeader.FindStringSubmatch(line)
			if m == nil {
				return nil, &sqlspec.MalformedFileError{Path: path, Line: lineNo, Reason: "empty or invalid statement name"}
			}
			flush()
			name := m[1]
			if _, exists := statements[name]; exists {
				return nil, &sqlspec.DuplicateStatementError{Name: name, Path: path}
			}
			currentName = name
			continue
		}
		if currentName != "" {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if !hasHeader {
		return map[string]string{}, nil
	}
	return statements, nil
}

// isHeaderLine reports whether line looks like an attempted "-- name:"
// header (even a malformed one), so a malformed header is rejected instead
// of silently absorbed into the previous statement's body.
func isHeaderLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "--") {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "--"))
	if len(rest) < 4 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(rest), "name") &&
		strings.HasPrefix(strings.TrimSpace(rest[4:]), ":")
}
