package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is an event record with the message it must render to.
type CorpusEntry struct {
	Description         string            `json:"description"`
	Policy              string            `json:"policy"` // "stdout" or "syslog"
	Format              string            `json:"format"`
	Record              model.EventRecord `json:"record"`
	ExpectedSeverity    string            `json:"expected_severity"`
	Expected            string            `json:"expected"`
	ExpectedFallback    bool              `json:"expected_fallback"`
	ExpectedRenderError bool              `json:"expected_render_error"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}
