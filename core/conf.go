package core

// Conf holds process-level options, parsed from flags with environment
// overrides.
type Conf struct {
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"QGRIDLAB_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log to standard output" env:"QGRIDLAB_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"QGRIDLAB_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./logs" env:"QGRIDLAB_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"QGRIDLAB_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"QGRIDLAB_LOG_ROTATION_MAX_DAYS"`
	MaxQubits          int    `long:"max-qubits" description:"upper bound on editable qubits" default:"4" env:"QGRIDLAB_MAX_QUBITS"`
	QueueMaxSize       int    `long:"queue-max-size" description:"run queue max size" default:"16" env:"QGRIDLAB_QUEUE_MAX_SIZE"`
	RandomSeed         int64  `long:"random-seed" description:"measurement rng seed, 0 uses the wall clock" default:"0" env:"QGRIDLAB_RANDOM_SEED"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./qgridlab.toml" env:"QGRIDLAB_SETTING_PATH"`
}
