package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID    string          `json:"run_id"`
	Scene    string          `json:"scene"`
	Started  time.Time       `json:"started"`
	Finished time.Time       `json:"finished"`
	Entries  []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one assembly in the output manifest.
type ManifestEntry struct {
	Assembly   string  `json:"assembly"`
	Object     string  `json:"object"`
	Segments   int     `json:"segments"`
	Faces      int     `json:"faces"`
	EmptyFaces int     `json:"empty_faces,omitempty"`
	Image      string  `json:"image,omitempty"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
	Seconds    float64 `json:"seconds"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(scene string, started time.Time) *Manifest {
	return &Manifest{RunID: uuid.NewString(), Scene: scene, Started: started}
}

// Add appends results in order.
func (m *Manifest) Add(results ...Result) {
	for _, r := range results {
		m.Entries = append(m.Entries, ManifestEntry{
			Assembly:   r.Assembly,
			Object:     r.Object,
			Segments:   r.Segments,
			Faces:      r.Faces,
			EmptyFaces: r.EmptyFaces,
			Image:      r.Image,
			Success:    r.Success,
			Error:      r.Error,
			Seconds:    r.Elapsed.Seconds(),
		})
	}
}

// Failed counts unsuccessful entries.
func (m *Manifest) Failed() int {
	n := 0
	for _, e := range m.Entries {
		if !e.Success {
			n++
		}
	}
	return n
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return nil
}
