package config

const (
	defaultVersion              = "0.3.1"
	defaultLogFile              = "openshelf.log"
	defaultLogLevel             = "info"
	defaultLogFileMaxSize       = 20
	defaultLogFileMaxBackups    = 3
	defaultLogFileMaxAge        = 28
	defaultLogCompress          = false
	defaultPort                 = 8080
	defaultHost                 = "0.0.0.0"
	defaultData                 = "/var/opt/openshelf"
	defaultDSN                  = defaultData + "/openshelf.db"
	defaultWorkerPoolSize       = 5
	defaultMaxUploadSize        = 20
	defaultLoanPeriodDays       = 14
	defaultFinePerDay           = 1
	defaultMaxBooksPerMember    = 3
	defaultOverdueSweepInterval = 30
)

var Opts *Options

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`
	// Version is the version of the application
	Version string `mapstructure:"version"`
	// WorkerPoolSize is the number of background workers per pool
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
	// MaxUploadSize is the maximum size of an image upload, in MiB
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	// LoanPeriodDays is the default loan period for an issued book
	LoanPeriodDays int `mapstructure:"loan_period_days"`
	// FinePerDay is the fine charged per overdue day, in currency units
	FinePerDay int `mapstructure:"fine_per_day"`
	// MaxBooksPerMember is the maximum number of open loans per member
	MaxBooksPerMember int `mapstructure:"max_books_per_member"`
	// OverdueSweepInterval is how often the overdue sweeper runs, in minutes
	OverdueSweepInterval int `mapstructure:"overdue_sweep_interval"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		Version:              defaultVersion,
		LogFile:              defaultLogFile,
		LogLevel:             defaultLogLevel,
		LogFileMaxSize:       defaultLogFileMaxSize,
		LogFileMaxBackups:    defaultLogFileMaxBackups,
		LogFileMaxAge:        defaultLogFileMaxAge,
		LogCompress:          defaultLogCompress,
		DSN:                  defaultDSN,
		Port:                 defaultPort,
		Host:                 defaultHost,
		Data:                 defaultData,
		WorkerPoolSize:       defaultWorkerPoolSize,
		MaxUploadSize:        defaultMaxUploadSize,
		LoanPeriodDays:       defaultLoanPeriodDays,
		FinePerDay:           defaultFinePerDay,
		MaxBooksPerMember:    defaultMaxBooksPerMember,
		OverdueSweepInterval: defaultOverdueSweepInterval,
	}
	return Opts
}
