package model

import "time"

// ArtifactStatus describes the export lifecycle of a rendered document.
type ArtifactStatus string

const (
	ArtifactQueued    ArtifactStatus = "queued"
	ArtifactRendering ArtifactStatus = "rendering"
	ArtifactCompleted ArtifactStatus = "completed"
	ArtifactFailed    ArtifactStatus = "failed"
)

// ArtifactKindResume marks a PDF rendered from generated resume markup.
const ArtifactKindResume = "resume"

// Artifact is an exported PDF. SourceURL is the pre-signed markup location
// it was rendered from; Location is where the sink put the result (a file
// path or an object URL).
type Artifact struct {
	ID           string         `json:"id"`
	Kind         string         `json:"kind"`
	SourceID     string         `json:"sourceId"`
	SourceURL    string         `json:"-"`
	FileName     string         `json:"fileName"`
	ObjectKey    string         `json:"objectKey"`
	Location     string         `json:"location,omitempty"`
	Status       ArtifactStatus `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
