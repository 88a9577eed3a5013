package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/knowledge.yaml
var defaultKnowledge []byte

type knowledgeFile struct {
	Records []Record `yaml:"records"`
}

// Parse decodes a YAML knowledge file
func Parse(data []byte) ([]Record, error) {
	var kf knowledgeFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("decode knowledge file: %w", err)
	}

	seen := make(map[string]struct{}, len(kf.Records))
	for i, r := range kf.Records {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		if strings.TrimSpace(r.Answer) == "" {
			return nil, fmt.Errorf("record %q: missing answer", r.ID)
		}
		if len(r.Tags) == 0 {
			return nil, fmt.Errorf("record %q: needs at least one tag", r.ID)
		}
		kf.Records[i].Answer = strings.TrimSpace(r.Answer)
	}
	return kf.Records, nil
}

// LoadFile reads records from path, or the embedded knowledge base when path is empty
func LoadFile(path string) ([]Record, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return Parse(data)
}

// Default returns the curated records shipped with the binary
func Default() ([]Record, error) {
	return Parse(defaultKnowledge)
}
