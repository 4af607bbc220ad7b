package config

const (
	defalutLogFile           = "bookwise.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultData              = "/var/opt/bookwise"
	defaultPublicURL         = ""
	defaultDBDriver          = "sqlite"
	defaultDSN               = defaultData + "/bookwise.db"
	defaultMongoURI          = "mongodb://localhost:27017"
	defaultMongoDatabase     = "bookwise"
	defaultTokenTTLHours     = 24 * 7
	defaultTextModel         = "gemini-2.0-flash"
	defaultImageModel        = "gemini-2.0-flash-preview-image-generation"
	defaultEmbeddingModel    = "gemini-embedding-001"
	defaultEmbeddingWorkers  = 2
	defaultMaxCoverWidth     = 1024
	defaultReadTimeout       = 60
	defaultWriteTimeout      = 120
)

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFilemaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// port is the port to listen on
	Port int `mapstructure:"port"`
	// host is the host to listen on
	Host string `mapstructure:"host"`
	// ReadTimeout and WriteTimeout are in seconds
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// data is the directory to store data
	Data string `mapstructure:"data"`
	// PublicURL is prefixed to object URLs, e.g. https://books.example.com
	PublicURL string `mapstructure:"public_url"`
	// DBDriver selects the document database: sqlite or mongo
	DBDriver string `mapstructure:"db_driver"`
	// DSN is the path of the sqlite database
	DSN           string `mapstructure:"dsn_uri"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	// JWTSecret signs access tokens. Generated and persisted when empty.
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	// For Gemini
	GeminiAPIKey         string `mapstructure:"gemini_api_key"`
	GeminiTextModel      string `mapstructure:"gemini_text_model"`
	GeminiImageModel     string `mapstructure:"gemini_image_model"`
	GeminiEmbeddingModel string `mapstructure:"gemini_embedding_model"`
	EmbeddingWorkers     int    `mapstructure:"embedding_workers"`
	// MaxCoverWidth is the widest cover stored, in pixels. Zero keeps the generated size.
	MaxCoverWidth int `mapstructure:"max_cover_width"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:              defalutLogFile,
		LogLevel:             defaultLogLevel,
		LogFileMaxSize:       defaultLogFileMaxSize,
		LogFileMaxBackups:    defaultLogFileMaxBackups,
		LogFileMaxAge:        defaultLogFileMaxAge,
		LogCompress:          defaultLogCompress,
		Port:                 defaultPort,
		Host:                 defaultHost,
		ReadTimeout:          defaultReadTimeout,
		WriteTimeout:         defaultWriteTimeout,
		Data:                 defaultData,
		PublicURL:            defaultPublicURL,
		DBDriver:             defaultDBDriver,
		DSN:                  defaultDSN,
		MongoURI:             defaultMongoURI,
		MongoDatabase:        defaultMongoDatabase,
		TokenTTLHours:        defaultTokenTTLHours,
		GeminiTextModel:      defaultTextModel,
		GeminiImageModel:     defaultImageModel,
		GeminiEmbeddingModel: defaultEmbeddingModel,
		EmbeddingWorkers:     defaultEmbeddingWorkers,
		MaxCoverWidth:        defaultMaxCoverWidth,
	}
	return Opts
}

// defaultsMap mirrors GetDefaultOptions so viper knows every key, which is
// what makes environment overrides visible to Unmarshal.
func defaultsMap() map[string]any {
	return map[string]any{
		"log_file":               defalutLogFile,
		"log_level":              defaultLogLevel,
		"log_file_max_size":      defaultLogFileMaxSize,
		"log_file_max_backups":   defaultLogFileMaxBackups,
		"log_file_max_age":       defaultLogFileMaxAge,
		"log_compress":           defaultLogCompress,
		"port":                   defaultPort,
		"host":                   defaultHost,
		"read_timeout":           defaultReadTimeout,
		"write_timeout":          defaultWriteTimeout,
		"data":                   defaultData,
		"public_url":             defaultPublicURL,
		"db_driver":              defaultDBDriver,
		"dsn_uri":                "",
		"mongo_uri":              defaultMongoURI,
		"mongo_database":         defaultMongoDatabase,
		"jwt_secret":             "",
		"token_ttl_hours":        defaultTokenTTLHours,
		"gemini_api_key":         "",
		"gemini_text_model":      defaultTextModel,
		"gemini_image_model":     defaultImageModel,
		"gemini_embedding_model": defaultEmbeddingModel,
		"embedding_workers":      defaultEmbeddingWorkers,
		"max_cover_width":        defaultMaxCoverWidth,
	}
}
