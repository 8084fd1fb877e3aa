package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/kessan/pkg/kessan/types"
)

// Extensions are the record file types FileSource understands, in lookup
// order.
var Extensions = []string{".json", ".yaml", ".yml", ".hjson"}

// FileSource loads records from JSON, YAML or Hjson files.
type FileSource struct {
	Logger *slog.Logger
}

func (s FileSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Load reads one record file, or every record file under a directory
// (recursively, sorted by path).
func (s FileSource) Load(ctx context.Context, path string) ([]Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		c, err := s.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []Record{{Path: path, Company: c}}, nil
	}

	files, err := Files(path)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := s.ReadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{Path: f, Company: c})
	}
	s.logger().Debug("records loaded", "path", path, "count", len(out))
	return out, nil
}

// Lookup finds <dir>/<name>.<ext> for the first matching extension.
func (s FileSource) Lookup(ctx context.Context, dir, name string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	p, _, err := Locate(dir, name)
	if err != nil {
		return Record{}, err
	}
	c, err := s.ReadFile(p)
	if err != nil {
		return Record{}, err
	}
	return Record{Path: p, Company: c}, nil
}

// Locate returns the record file for name in dir without reading it.
func Locate(dir, name string) (string, fs.FileInfo, error) {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", nil, fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	for _, ext := range Extensions {
		p := filepath.Join(dir, name+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, info, nil
		}
	}
	return "", nil, &NotFoundError{Name: name}
}

// Files lists the record files under root, recursively, sorted by path.
func Files(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isRecordFile(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile decodes and validates a single record file.
func (s FileSource) ReadFile(path string) (types.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Company{}, err
	}
	c, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return types.Company{}, &ParseError{Path: path, Err: err}
	}
	if err := c.Validate(); err != nil {
		return types.Company{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses record data by file extension. It does not validate.
func Decode(ext string, data []byte) (types.Company, error) {
	var c types.Company
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, err
		}
	case ".hjson":
		if err := hjson.Unmarshal(data, &c); err != nil {
			return c, err
		}
	default:
		return c, fmt.Errorf("unsupported record format %q", ext)
	}
	return c, nil
}

func isRecordFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
