package config

// Streamlit configuration constants
const (
	// DefaultDirName is the dotfolder under the user's home directory
	// that Streamlit reads its configuration from
	DefaultDirName = ".streamlit"

	// DefaultEmail is the address written into credentials.toml
	DefaultEmail = "no-reply@offline.dk"
)
