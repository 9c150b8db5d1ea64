package adapter

import (
	"os"
	"strings"
)

// Environment is the runtime the process was started in.
type Environment string

const (
	// EnvServer has no UI context (API server, pre-rendering).
	EnvServer Environment = "server"
	// EnvDesktop is the packaged desktop shell with a local database.
	EnvDesktop Environment = "desktop"
	// EnvBrowser serves an ordinary browser session.
	EnvBrowser Environment = "browser"
)

// RuntimeEnvVar selects the environment; unset means server.
const RuntimeEnvVar = "POS_RUNTIME"

// DetectEnvironment reads POS_RUNTIME.
func DetectEnvironment() Environment {
	return ParseEnvironment(os.Getenv(RuntimeEnvVar))
}

func ParseEnvironment(v string) Environment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "desktop", "electron":
		return EnvDesktop
	case "browser", "web":
		return EnvBrowser
	default:
		return EnvServer
	}
}

// UsesLocal reports whether the environment should try the local store.
func (e Environment) UsesLocal() bool {
	return e == EnvDesktop
}
