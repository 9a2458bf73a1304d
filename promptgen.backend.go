package promptgen

// Backend serializes artifact definitions into host source files.
// Implementations must be pure and safe for concurrent use: equal
// definitions must serialize to byte-identical files.
type Backend interface {
	Name() string

	// FileName returns the name of the file def serializes to. The generator
	// uses it to keep two artifacts from sharing a file.
	FileName(def ArtifactDefinition) string

	Serialize(def ArtifactDefinition) (GeneratedFile, error)
}
