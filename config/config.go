package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"3000"`

	// Zenodo (Archiv für Reviews)
	ZenodoAPIKey    string `envconfig:"ZENODO_API_KEY" required:"true"`
	ZenodoBaseURL   string `envconfig:"ZENODO_BASE_URL" default:"https://sandbox.zenodo.org/api"`
	ZenodoCommunity string `envconfig:"ZENODO_COMMUNITY" default:"prereview-test-community"`

	DOIBaseURL       string `envconfig:"DOI_BASE_URL" default:"https://doi.org"`
	EuropePMCBaseURL string `envconfig:"EUROPEPMC_BASE_URL" default:"https://www.ebi.ac.uk/europepmc/webservices/rest"`

	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`

	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`

	// Optional: ohne DB_HOST werden Sessions im Speicher gehalten
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"prereview"`

	ArchiveProbeSchedule string `envconfig:"ARCHIVE_PROBE_SCHEDULE" default:"*/5 * * * *"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// UsesDatabase meldet, ob Sessions in PostgreSQL gespeichert werden.
func (c *Config) UsesDatabase() bool {
	return c.DBHost != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
