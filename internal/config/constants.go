package config

import "time"

// Application constants
const (
	AppName    = "catnorm"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. CATNORM_SERVER_PORT
	EnvPrefix = "CATNORM"

	DefaultMaxBodyBytes       = 10 << 20
	DefaultMaxParallelColumns = 4
	DefaultShutdownTimeout    = 30 * time.Second
)

// Unicode normalization forms accepted by NormalizeConfig.Unicode
const (
	UnicodeNone = ""
	UnicodeNFC  = "NFC"
	UnicodeNFKC = "NFKC"
)

// configFileLocations are searched in order when no explicit file is given
var configFileLocations = []string{
	"catnorm.yaml",
	"configs/catnorm.yaml",
	"../configs/catnorm.yaml",
}
