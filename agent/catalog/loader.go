package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var errMissingIdentity = errors.New("part has neither id nor designation")

// Load reads every *.json, *.yaml and *.yml file in dir, one part per file.
// Files that fail to decode are skipped. When nothing loads the sample
// catalog is used instead.
func Load(dir string) *Store {
	parts, err := LoadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("catalog directory unavailable")
	}
	if len(parts) == 0 {
		log.Info().Msg("no catalog files loaded, using sample bearing data")
		parts = SampleParts()
	}

	store := NewStore(parts)
	log.Info().Int("parts", store.Len()).Msg("catalog loaded")
	return store
}

// LoadDir decodes the part files in dir in lexical file order.
func LoadDir(dir string) ([]Part, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("catalog directory is not configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog directory: %w", err)
	}

	var parts []Part
	for _, entry := range entries {
		if entry.IsDir() || !isPartFile(entry) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		part, err := decodePartFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping catalog file")
			continue
		}
		log.Debug().Str("designation", part.Designation).Str("title", part.Title).Msg("loaded part")
		parts = append(parts, part)
	}
	return parts, nil
}

func isPartFile(entry fs.DirEntry) bool {
	switch strings.ToLower(filepath.Ext(entry.Name())) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func decodePartFile(path string) (Part, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Part{}, err
	}

	var part Part
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &part)
	default:
		err = yaml.Unmarshal(raw, &part)
	}
	if err != nil {
		return Part{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if part.ID == "" && part.Designation == "" {
		return Part{}, errMissingIdentity
	}
	return part, nil
}
