package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/studyzone/internal/llm"
	"github.com/abhisek/studyzone/internal/session"
	"github.com/abhisek/studyzone/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// STUDYZONE_BANK_PATH or STUDYZONE_DB_DRIVER.
const EnvPrefix = "STUDYZONE"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration loaded from files, .env and
// environment variables.
type Config struct {
	Env          string     `mapstructure:"env"`           // "production" switches to JSON logs
	DevMode      bool       `mapstructure:"dev_mode"`      // skip login and study as guest
	BankPath     string     `mapstructure:"bank_path"`     // multiple-choice bank, CSV or JSON
	FlyerPath    string     `mapstructure:"flyer_path"`    // passage bank for flyer completion
	PracticePath string     `mapstructure:"practice_path"` // bank for the batch practice flyer
	AccountsPath string     `mapstructure:"accounts_path"` // student accounts CSV
	LogFile      string     `mapstructure:"log_file"`      // empty means <data dir>/studyzone.log
	DB           DB         `mapstructure:"db"`
	Quiz         Quiz       `mapstructure:"quiz"`
	LLM          llm.Config `mapstructure:"llm"`
}

// DB selects the attempt-history database.
type DB struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "pgx"
	DSN    string `mapstructure:"dsn"`    // empty means the default SQLite file
}

// Quiz holds scoring and loading knobs.
type Quiz struct {
	ScoreBasis  string `mapstructure:"score_basis"`  // "all" or "answered"
	OptionArity int    `mapstructure:"option_arity"` // options shown per question
	ResumeKeep  int    `mapstructure:"resume_keep"`  // progress snapshots kept per student
}

// Basis parses Quiz.ScoreBasis. Validate has already rejected bad values.
func (q Quiz) Basis() session.Basis {
	b, _ := session.ParseBasis(q.ScoreBasis)
	return b
}

// Options control where Load looks.
type Options struct {
	// ConfigFile overrides the config.yaml search.
	ConfigFile string
	// EnvFile is loaded into the process environment first if it exists.
	// Default ".env".
	EnvFile string
	// Flags, when set, overrides keys from the root command's flags:
	// --bank → bank_path and --db → db.dsn.
	Flags *pflag.FlagSet
}

// Load reads configuration. Missing config and .env files are not errors.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("env", EnvPrefix+"_ENV", "APP_ENV")

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.LLM = llm.ApplyEnv(cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("dev_mode", false)
	v.SetDefault("bank_path", "de_thi.csv")
	v.SetDefault("flyer_path", filepath.Join("data", "converted data", "flyer_gap-fill.json"))
	v.SetDefault("practice_path", filepath.Join("data", "converted data", "flyer_gap-fill.json"))
	v.SetDefault("accounts_path", "users.csv")
	v.SetDefault("log_file", "")
	v.SetDefault("db.driver", store.DriverSQLite)
	v.SetDefault("db.dsn", "")
	v.SetDefault("quiz.score_basis", session.BasisAll.String())
	v.SetDefault("quiz.option_arity", 4)
	v.SetDefault("quiz.resume_keep", 5)

	// Every llm key needs a default for AutomaticEnv to reach it through
	// Unmarshal.
	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
}

var flagKeys = map[string]string{
	"bank": "bank_path",
	"db":   "db.dsn",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate rejects values the rest of the app cannot use.
func (c *Config) Validate() error {
	if _, err := session.ParseBasis(c.Quiz.ScoreBasis); err != nil {
		return fmt.Errorf("%w: quiz.score_basis: %v", ErrInvalidConfig, err)
	}
	if c.Quiz.OptionArity < 2 {
		return fmt.Errorf("%w: quiz.option_arity must be at least 2, got %d", ErrInvalidConfig, c.Quiz.OptionArity)
	}
	switch c.DB.Driver {
	case store.DriverSQLite, store.DriverPostgres, "postgres":
	default:
		return fmt.Errorf("%w: db.driver %q is not supported", ErrInvalidConfig, c.DB.Driver)
	}
	if c.DB.Driver != store.DriverSQLite && c.DB.DSN == "" {
		return fmt.Errorf("%w: db.dsn is required for driver %q", ErrInvalidConfig, c.DB.Driver)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// IsProduction reports whether Env selects production behavior.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// DatabaseDSN returns DB.DSN or, for SQLite, the default database file.
func (c *Config) DatabaseDSN() (string, error) {
	if c.DB.DSN != "" {
		return c.DB.DSN, nil
	}
	return store.DefaultDBPath()
}

// LogPath returns LogFile or <data dir>/studyzone.log.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "studyzone.log"), nil
}

// LLMTimeout is the per-explanation budget, never zero.
func (c *Config) LLMTimeout() time.Duration {
	if c.LLM.Timeout <= 0 {
		return llm.DefaultConfig().Timeout
	}
	return c.LLM.Timeout
}

func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "studyzone"), nil
}
