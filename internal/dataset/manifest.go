package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/KaramelBytes/cord19/internal/utils"
	"github.com/google/uuid"
)

// Manifest is the JSON sidecar describing how a cleaned artifact was made.
type Manifest struct {
	RunID      string     `json:"run_id"`
	Source     string     `json:"source"`
	Output     string     `json:"output"`
	Columns    []string   `json:"columns"`
	Stats      CleanStats `json:"stats"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// NewManifest starts a manifest for one cleaning run.
func NewManifest(source, output string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Source:    source,
		Output:    output,
		StartedAt: time.Now().UTC(),
	}
}

// ManifestPath returns the sidecar location for a cleaned artifact.
func ManifestPath(output string) string { return output + ".manifest.json" }

// Finish records the outcome of the run.
func (m *Manifest) Finish(t *CleanedTable, stats CleanStats) {
	m.Columns = append([]string(nil), t.Header...)
	m.Stats = stats
	m.FinishedAt = time.Now().UTC()
}

// Save writes the manifest next to its artifact.
func (m *Manifest) Save() error {
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(ManifestPath(m.Output), b)
}

// LoadManifest reads the sidecar of a cleaned artifact.
func LoadManifest(output string) (*Manifest, error) {
	path := ManifestPath(output)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
