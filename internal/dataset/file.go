package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileSource reads a dataset from a .json (comments allowed), .yml or
// .yaml file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) (Raw, error) {
	if err := ctx.Err(); err != nil {
		return Raw{}, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return Raw{}, fmt.Errorf("read dataset: %w", err)
	}
	return Decode(b, filepath.Ext(s.Path))
}

// Decode parses a dataset document. ext selects the format (".json",
// ".yml", ".yaml"); anything else is tried as JSON.
func Decode(b []byte, ext string) (Raw, error) {
	var raw Raw
	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return Raw{}, fmt.Errorf("decode yaml dataset: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(b)))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return Raw{}, fmt.Errorf("decode json dataset: %w", err)
		}
	}
	return raw, nil
}
