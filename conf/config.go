package conf

import (
	"errors"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "GROCERIZE"

var (
	Path string
	Port int

	global *Config
)

func G() *Config {
	if global == nil {
		panic("configuration not loaded")
	}

	return global
}

func ReplaceGlobals(cfg *Config) {
	global = cfg
}

func LoadEnv(cli *cli.Context) error {
	path := cli.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = homeDir + "/.flarex/grocerize"
	}

	Path = path
	Port = cli.Int("port")
	return nil
}

func LoadConfig() (*Config, error) {
	f, err := os.Open(Path + "/config.yaml")
	if err != nil {
		f, err = os.Open(Path + "/config.example.yaml")
		if err != nil {
			return nil, err
		}
	}
	defer f.Close()

	r := NewEnvExpandedReader(f)

	var cfg *Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, err
	}

	// GROCERIZE_SESSION_SECRET, GROCERIZE_SMTP_USERNAME, ...
	if err := envconfig.Process(EnvPrefix, &cfg.Secrets); err != nil {
		return nil, err
	}
	cfg.Secrets.apply(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	Name        string      `yaml:"name"`
	BaseURL     string      `yaml:"baseUrl"`
	Site        Site        `yaml:"site"`
	Session     Session     `yaml:"session"`
	Persistence Persistence `yaml:"persistence"`
	Mail        Mail        `yaml:"mail"`
	EventBus    EventBus    `yaml:"eventBus"`

	Secrets Secrets `yaml:"-"`
}

// applyDefaults fills the values a config file may leave out, including
// whole blocks that are missing.
func (cfg *Config) applyDefaults() {
	if cfg.Session.Name == "" {
		cfg.Session.Name = "grocerize"
	}

	if cfg.Session.MaxAge == 0 {
		cfg.Session.MaxAge = 30 * 24 * time.Hour
	}

	if cfg.Persistence.Name == "" {
		cfg.Persistence.Name = "grocerize"
	}

	if cfg.Persistence.Host == "" {
		cfg.Persistence.Host = Path
	}

	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
	}

	if cfg.Mail.Sendmail.Path == "" {
		cfg.Mail.Sendmail.Path = "/usr/sbin/sendmail"
	}

	if cfg.EventBus.Subject == "" {
		cfg.EventBus.Subject = "groceries"
	}
}

func (cfg *Config) Validate() error {
	if cfg.Session.Secret == "" {
		return errors.New("session secret is required")
	}

	if cfg.Mail.From == "" {
		return errors.New("mail sender address is required")
	}

	if cfg.Mail.Driver == SMTP && cfg.Mail.SMTP.Host == "" {
		return errors.New("smtp host is required")
	}

	if cfg.EventBus.Provider == NATS && cfg.EventBus.URL == "" {
		return errors.New("nats url is required")
	}

	return nil
}

type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Session struct {
	Name   string
	Secret string
	MaxAge time.Duration
}

func (s *Session) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name   string `yaml:"name"`
		Secret string `yaml:"secret"`
		MaxAge string `yaml:"maxAge"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.Name = raw.Name
	s.Secret = raw.Secret

	if raw.MaxAge != "" {
		maxAge, err := time.ParseDuration(raw.MaxAge)
		if err != nil {
			return err
		}

		s.MaxAge = maxAge
	}

	return nil
}

// Secrets are read from the environment and take precedence over the
// values in the config file.
type Secrets struct {
	SessionSecret string `envconfig:"SESSION_SECRET"`
	SMTPUsername  string `envconfig:"SMTP_USERNAME"`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD"`
}

func (s Secrets) apply(cfg *Config) {
	if s.SessionSecret != "" {
		cfg.Session.Secret = s.SessionSecret
	}

	if s.SMTPUsername != "" {
		cfg.Mail.SMTP.Username = s.SMTPUsername
	}

	if s.SMTPPassword != "" {
		cfg.Mail.SMTP.Password = s.SMTPPassword
	}
}

type PersistenceDriver int

const (
	SQLite PersistenceDriver = iota
	BadgerDB
	InMem
)

func ParsePersistenceDriver(driver string) (PersistenceDriver, error) {
	switch driver {
	case "sqlite":
		return SQLite, nil
	case "badger":
		return BadgerDB, nil
	case "inmem":
		return InMem, nil
	default:
		return -1, errors.New("driver not supported")
	}
}

func (driver PersistenceDriver) String() string {
	switch driver {
	case SQLite:
		return "sqlite"
	case BadgerDB:
		return "badger"
	case InMem:
		return "inmem"
	default:
		return "unknown"
	}
}

type Persistence struct {
	Driver PersistenceDriver
	Name   string
	Host   string
	InMem  bool
}

func (p *Persistence) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Driver string `yaml:"driver"`
		Name   string `yaml:"name"`
		Host   string `yaml:"host"`
		InMem  bool   `yaml:"inmem"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	driver, err := ParsePersistenceDriver(raw.Driver)
	if err != nil {
		return err
	}

	p.Driver = driver

	p.Name = raw.Name
	p.Host = raw.Host
	p.InMem = raw.InMem

	return nil
}

type MailDriver int

const (
	SMTP MailDriver = iota
	Sendmail
	LogMail
)

func ParseMailDriver(driver string) (MailDriver, error) {
	switch driver {
	case "smtp":
		return SMTP, nil
	case "sendmail":
		return Sendmail, nil
	case "log":
		return LogMail, nil
	default:
		return -1, errors.New("mail driver not supported")
	}
}

func (driver MailDriver) String() string {
	switch driver {
	case SMTP:
		return "smtp"
	case Sendmail:
		return "sendmail"
	case LogMail:
		return "log"
	default:
		return "unknown"
	}
}

type Mail struct {
	Driver   MailDriver
	From     string
	SMTP     SMTPServer
	Sendmail SendmailBinary
}

func (m *Mail) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Driver   string         `yaml:"driver"`
		From     string         `yaml:"from"`
		SMTP     SMTPServer     `yaml:"smtp"`
		Sendmail SendmailBinary `yaml:"sendmail"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	driver, err := ParseMailDriver(raw.Driver)
	if err != nil {
		return err
	}

	m.Driver = driver
	m.From = raw.From

	m.SMTP = raw.SMTP
	m.Sendmail = raw.Sendmail

	return nil
}

type SMTPServer struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type SendmailBinary struct {
	Path string `yaml:"path"`
}

type TransportProvider int

const (
	NoTransport TransportProvider = iota
	NATS
)

func ParseTransportProvider(provider string) (TransportProvider, error) {
	switch provider {
	case "", "none":
		return NoTransport, nil
	case "nats":
		return NATS, nil
	default:
		return -1, errors.New("provider not supported")
	}
}

func (p TransportProvider) String() string {
	switch p {
	case NoTransport:
		return "none"
	case NATS:
		return "nats"
	default:
		return ""
	}
}

type EventBus struct {
	Provider TransportProvider
	URL      string
	Subject  string
}

func (e *EventBus) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Provider string `yaml:"provider"`
		URL      string `yaml:"url"`
		Subject  string `yaml:"subject"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	provider, err := ParseTransportProvider(raw.Provider)
	if err != nil {
		return err
	}

	e.Provider = provider
	e.URL = raw.URL
	e.Subject = raw.Subject

	return nil
}
