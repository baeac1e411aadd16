package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/teardown/pkg/shared/files"
)

// DefaultArtifactName is the file name of the run artifact inside the output folder.
const DefaultArtifactName = "teardown-run.json"

// Artifact wraps a command result with identifying metadata.
type Artifact struct {
	RunID     string    `json:"run_id"`
	Command   string    `json:"command"`
	CreatedAt time.Time `json:"created_at"`
	Result    any       `json:"result"`
}

// NewArtifact stamps result with a fresh run id.
func NewArtifact(command string, result any, t time.Time) Artifact {
	return Artifact{
		RunID:     uuid.NewString(),
		Command:   command,
		CreatedAt: t.UTC(),
		Result:    result,
	}
}

// SaveArtifactJSON writes artifact to <dir>/teardown-run.json and returns the full path.
func SaveArtifactJSON(dir string, artifact Artifact, logger hclog.Logger) (string, error) {
	path := filepath.Join(dir, DefaultArtifactName)

	data, err := json.MarshalIndent(artifact, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.WriteFile(path, data); err != nil {
		return path, fmt.Errorf("error writing result to artifact file: %w", err)
	}
	logger.Debug("artifact saved to file", "path", path, "run_id", artifact.RunID)

	return path, nil
}
