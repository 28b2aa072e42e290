package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CompanyInfo is printed on invoices
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	KvK     string `json:"kvk"`
	BTW     string `json:"btw"`
	IBAN    string `json:"iban"`
}

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	Auth0Domain        string
	Auth0Audience      string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	UploadDir          string
	LogLevel           string

	AdminEmail                string
	OrderNumberSeed           int64
	StaffUnassignedVisibility policy.UnassignedVisibility
	NATSURL                   string
	CORSAllowedOrigins        []string
	Location                  *time.Location // dates on orders are calendar days here
	Company                   CompanyInfo
}

var defaults = map[string]any{
	"port":                        "8080",
	"go_env":                      "development",
	"aws_region":                  "eu-central-1",
	"upload_dir":                  "./uploads",
	"log_level":                   "info",
	"admin_email":                 "info@nieuwe-nostalgie.nl",
	"order_number_seed":           20250074,
	"staff_unassigned_visibility": "none",
	"cors_allowed_origins":        "http://localhost:5173",
	"timezone":                    "Europe/Amsterdam",
	"company_name":                "Nieuwe Nostalgie",
	"company_address":             "Rooijakkerstraat 14-6, 5652BB Eindhoven",
	"company_kvk":                 "17282117",
	"company_btw":                 "NL001688731B36",
	"company_iban":                "NL28 RABO 0147 2504 98",
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	loadEnvFiles()
	return FromViper(newViper())
}

// loadEnvFiles loads .env.<GO_ENV> and falls back to .env. Missing files are
// fine: in production the variables are set directly.
func loadEnvFiles() {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if err := godotenv.Load(fmt.Sprintf(".env.%s", env)); err != nil {
		_ = godotenv.Load()
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	// optional config.yaml next to the binary; env vars still win
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	return v
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	visibility, err := policy.ParseUnassignedVisibility(v.GetString("staff_unassigned_visibility"))
	if err != nil {
		return nil, fmt.Errorf("STAFF_UNASSIGNED_VISIBILITY: %w", err)
	}
	location, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	config := &Config{
		DatabaseURL:        v.GetString("database_url"),
		Port:               v.GetString("port"),
		GoEnv:              v.GetString("go_env"),
		Auth0Domain:        v.GetString("auth0_domain"),
		Auth0Audience:      v.GetString("auth0_audience"),
		AWSRegion:          v.GetString("aws_region"),
		AWSS3Bucket:        v.GetString("aws_s3_bucket"),
		AWSAccessKeyID:     v.GetString("aws_access_key_id"),
		AWSSecretAccessKey: v.GetString("aws_secret_access_key"),
		UploadDir:          v.GetString("upload_dir"),
		LogLevel:           v.GetString("log_level"),

		AdminEmail:                strings.TrimSpace(v.GetString("admin_email")),
		OrderNumberSeed:           v.GetInt64("order_number_seed"),
		StaffUnassignedVisibility: visibility,
		NATSURL:                   v.GetString("nats_url"),
		CORSAllowedOrigins:        splitList(v.GetString("cors_allowed_origins")),
		Location:                  location,
		Company: CompanyInfo{
			Name:    v.GetString("company_name"),
			Address: v.GetString("company_address"),
			KvK:     v.GetString("company_kvk"),
			BTW:     v.GetString("company_btw"),
			IBAN:    v.GetString("company_iban"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.OrderNumberSeed < 0 {
		return errors.New("ORDER_NUMBER_SEED must not be negative")
	}
	if c.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL is required")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether images are stored in an S3 bucket rather than on disk
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
