package config

// Application constants
const (
	AppName    = "equitycli"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. EQUITY_LOGGING_LEVEL
	EnvPrefix = "EQUITY"
	// ConfigFileEnv names an explicit configuration file
	ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/equitycli.log"

	// Analysis defaults
	DefaultResolution    = 200
	DefaultAlpha         = 0.05
	DefaultWorkers       = 4
	DefaultIDColumn      = "CNTRY_NAME"
	DefaultRankingColumn = "GDP_per_capita"

	DefaultServiceName = "equitycli"
)

// configFileLocations are searched in order when no file is named
var configFileLocations = []string{
	"equitycli.yaml",
	"configs/equitycli.yaml",
}
