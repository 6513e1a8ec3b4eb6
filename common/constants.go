package common

const (
	SrcFileExtension = ".ki"
	ManifestFileName = "kielo.toml"
	KieloVersion     = "0.1.0"

	// OutputSuffix is appended to the source file stem when no output name is
	// given on the command line or in the project manifest
	OutputSuffix = "_out"
)
