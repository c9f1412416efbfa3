package config

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executable
	Main_version = "v1.2.0"

	// Modular tools
	Benchmark       = "v1.1.0"
	Dataset_Encoder = "v1.2.0" // FCGR / k-mer grid / one-hot pipeline
	Demux           = "v1.0.0"
	Split_Set       = "v1.0.0"
	Seq_Generator   = "v2.1.0"
	Sanity_check    = "v1.1.0"
)
