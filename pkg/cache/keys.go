package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys for pipeline outputs.
type Keyer interface {
	// ArtifactKey returns the key of one rendered format of a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string   `json:"format"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Resizes    []string `json:"resizes,omitempty"`
	HandleSize float64  `json:"handle_size,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Handles    bool     `json:"handles,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
}

// Hash returns the hex SHA-256 of data. The pipeline hashes the JSON form
// of a layout, so a TOML file and its JSON export share entries.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer hashes the document hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<format>:<sha256>". The format stays
// readable so entries can be told apart in a shared Redis.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(struct {
		Doc  string          `json:"doc"`
		Opts ArtifactKeyOpts `json:"opts"`
	}{docHash, opts})
	return "artifact:" + opts.Format + ":" + Hash(data)
}
