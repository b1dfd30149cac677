package config

// Config is assembled once at process start and handed to the commands
type Config struct {
	Home     string `env:"POSTCLI_HOME"`
	Mail     MailConfig
	Send     SendConfig
	Log      LogConfig
	Trace    Toggle `env:"TRACE"`
	Mirror   string `env:"SEND_LOG_MIRROR" envDefault:"none"` // none, redis, database, sqs
	Lock     string `env:"SCHEDULE_LOCK" envDefault:"none"`   // none, redis, database
	Redis    RedisConfig
	Database DatabaseConfig
	SQS      SQSConfig
}

// MailConfig holds the raw transport settings as read from the environment
type MailConfig struct {
	Mailer   string `env:"MAIL_MAILER" envDefault:"smtp"` // smtp, log
	Address  string `env:"EMAIL_ADDRESS"`
	Password string `env:"EMAIL_PASSWORD"`
	Server   string `env:"SMTP_SERVER"`
	Port     string `env:"SMTP_PORT"`
	FromName string `env:"FROM_NAME"`
}

// SendConfig holds the defaults used by send-default and the role presets
type SendConfig struct {
	Role             string `env:"POSTCLI_ROLE"`
	ContactsFile     string `env:"CONTACTS_FILE"`
	Limit            string `env:"SEND_LIMIT"`
	SkipContacted    Toggle `env:"SKIP_CONTACTED"`
	Mutate           Toggle `env:"MUTATE"`
	Resume           Toggle `env:"RESUME_ON_FAILURE"`
	LogFile          string `env:"SEND_LOG_FILE"`
	SubjectFE        string `env:"EMAIL_SUBJECT_FE"`
	SubjectBE        string `env:"EMAIL_SUBJECT_BE"`
	SubjectFS        string `env:"EMAIL_SUBJECT_FS"`
	SubjectFullstack string `env:"EMAIL_SUBJECT_FULLSTACK"`
}

// LogConfig controls the global logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"pretty"` // pretty, json
}

// RedisConfig holds configuration for Redis connection
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
	List     string `env:"REDIS_LIST" envDefault:"postcli:sent_log"`
}

// DatabaseConfig holds configuration for SQL database connection
type DatabaseConfig struct {
	Connection string `env:"DB_CONNECTION"` // mysql, pgsql, postgres
	Host       string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port       string `env:"DB_PORT"`
	Database   string `env:"DB_DATABASE"`
	Username   string `env:"DB_USERNAME"`
	Password   string `env:"DB_PASSWORD"`
	Table      string `env:"DB_SEND_LOG_TABLE" envDefault:"sent_log"`
}
