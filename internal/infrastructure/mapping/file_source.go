package mapping

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
)

// FileSource reads the mapping file from disk on every call, so edits are
// picked up without a restart.
type FileSource struct {
	path string
}

var _ ports.MappingSource = (*FileSource)(nil)

// NewFileSource points at a .json/.json5 or .yaml/.yml mapping file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

type rawEntry struct {
	Brand        string      `json:"brand" yaml:"brand"`
	ExternalName string      `json:"externalProductName" yaml:"externalProductName"`
	ProductID    interface{} `json:"platformProductId" yaml:"platformProductId"`
	VariantID    interface{} `json:"platformVariantId" yaml:"platformVariantId"`
}

// LoadMappings decodes the whole file, preserving its order.
func (s *FileSource) LoadMappings(ctx context.Context) ([]domain.MappingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, fmt.Errorf("%w: no path configured", domain.ErrInvalidMapping)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrInvalidMapping, s.path, err)
	}

	entries, err := Decode(raw, filepath.Ext(s.path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidMapping, s.path, err)
	}
	return entries, nil
}

// Decode parses mapping entries; ext selects YAML (".yaml", ".yml") or JSON5 (anything else).
func Decode(data []byte, ext string) ([]domain.MappingEntry, error) {
	var raw []rawEntry
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json5.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	entries := make([]domain.MappingEntry, 0, len(raw))
	for i, r := range raw {
		productID, err := coerceID(r.ProductID)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s) platformProductId: %w", i, r.ExternalName, err)
		}
		variantID, err := coerceID(r.VariantID)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s) platformVariantId: %w", i, r.ExternalName, err)
		}
		entries = append(entries, domain.MappingEntry{
			Brand:        strings.TrimSpace(r.Brand),
			ExternalName: r.ExternalName,
			ProductID:    productID,
			VariantID:    variantID,
		})
	}
	return entries, nil
}

// coerceID accepts numbers or numeric strings; nil and "" mean "absent".
func coerceID(v interface{}) (*int64, error) {
	var id int64
	switch value := v.(type) {
	case nil:
		return nil, nil
	case int:
		id = int64(value)
	case int64:
		id = value
	case uint64:
		if value > math.MaxInt64 {
			return nil, fmt.Errorf("id %d out of range", value)
		}
		id = int64(value)
	case float64:
		if value != math.Trunc(value) {
			return nil, fmt.Errorf("id %v is not an integer", value)
		}
		id = int64(value)
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("id %q is not numeric", value)
		}
		id = parsed
	default:
		return nil, fmt.Errorf("unsupported id type %T", v)
	}
	return &id, nil
}
