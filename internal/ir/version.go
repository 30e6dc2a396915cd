package ir

// Version constants for the program IR and the importer.
const (
	// IRVersion is the program/snapshot schema version.
	IRVersion = "1"

	// ImporterVersion is the qbridge importer version.
	ImporterVersion = "0.1.0"
)
