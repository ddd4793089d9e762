package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// artifactSchema is bumped whenever geometry changes would make
// previously cached artifacts wrong for the same options.
const artifactSchema = "v1"

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered backdrop output.
	ArtifactKey(opts ArtifactKeyOpts) string

	// ContentKey identifies a content registry snapshot for a category.
	ContentKey(source, category string) string
}

// ArtifactKeyOpts holds every input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Preset string  `json:"preset"`
	Noise  string  `json:"noise"`
	Seed   uint64  `json:"seed"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Frames int     `json:"frames"`
	Scale  float64 `json:"scale"`
	Format string  `json:"format"`
}

// DefaultKeyer produces content-addressed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<schema>:<sha256 of opts>".
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(opts)
	return "artifact:" + artifactSchema + ":" + Hash(data)
}

// ContentKey returns "content:<source>:<category>".
func (DefaultKeyer) ContentKey(source, category string) string {
	return "content:" + source + ":" + category
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
