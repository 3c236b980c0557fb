// Package streamlit materializes the configuration files a Streamlit
// server reads at startup: credentials.toml and config.toml.
package streamlit

import "fmt"

// File names Streamlit expects inside its config directory
const (
	// CredentialsFile holds the registered email address
	CredentialsFile = "credentials.toml"

	// SettingsFile holds the server settings, including the port
	SettingsFile = "config.toml"
)

// Credentials mirrors the [general] section of credentials.toml for
// read-back inspection.
type Credentials struct {
	General struct {
		Email string `toml:"email"`
	} `toml:"general"`
}

// ServerSettings mirrors the [server] section of config.toml for
// read-back inspection.
type ServerSettings struct {
	Server struct {
		Headless   bool  `toml:"headless"`
		EnableCORS bool  `toml:"enableCORS"`
		Port       int64 `toml:"port"`
	} `toml:"server"`
}

// renderCredentials produces the exact credentials.toml text.
func renderCredentials(email string) string {
	return fmt.Sprintf("[general]\nemail = %q\n", email)
}

// renderServerSettings produces the exact config.toml text. The port is
// spliced in verbatim, with no parsing or reformatting, and the
// enableCORS line keeps its historical spacing. A generic TOML encoder
// cannot reproduce either, so the documents are rendered as literal
// text and only ever decoded with a TOML library.
func renderServerSettings(headless, enableCORS bool, port string) string {
	return fmt.Sprintf("[server]\nheadless = %t\nenableCORS=%t\nport = %s\n", headless, enableCORS, port)
}
