package core

// Config represents configuration options for the vector store
type Config struct {
	Path      string // Database file path
	VectorDim int    // Expected vector dimension, 0 = auto-detect
	Column    string // Logical name of the vector column
	Logger    Logger // Destination for store logs, nil = discard
}

// DefaultColumn is the vector column name queries address when the caller
// did not configure one.
const DefaultColumn = "vector"

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		VectorDim: 0, // Auto-detect dimension
		Column:    DefaultColumn,
	}
}
