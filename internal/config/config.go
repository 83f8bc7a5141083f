package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is populated from environment variables. The service runs as a
// plain containerized process; everything tunable comes in through env.
type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	ServerPort string `mapstructure:"SERVER_PORT"`

	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`

	// CheckInCutoff is a HH:MM time-of-day (UTC). Check-ins after it are
	// classified late.
	CheckInCutoff string `mapstructure:"CHECKIN_CUTOFF"`

	// HalfDayThresholdHours is the minimum worked duration for a
	// completed day to keep its full-day status.
	HalfDayThresholdHours float64 `mapstructure:"HALF_DAY_THRESHOLD_HOURS"`

	AWSRegion        string `mapstructure:"AWS_REGION"`
	EmailSQSQueueURL string `mapstructure:"EMAIL_SQS_QUEUE_URL"`
	AWSEndpoint      string `mapstructure:"AWS_ENDPOINT"`
	EmailSender      string `mapstructure:"EMAIL_SENDER"`

	IsLocalDev bool `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "attendance_db")
	viper.SetDefault("SERVER_PORT", "8055")
	viper.SetDefault("JWT_SECRET", "dev-access-secret")
	viper.SetDefault("JWT_REFRESH_SECRET", "dev-refresh-secret")
	viper.SetDefault("CHECKIN_CUTOFF", "09:00")
	viper.SetDefault("HALF_DAY_THRESHOLD_HOURS", 4.0)
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("EMAIL_SQS_QUEUE_URL", "http://localstack:4566/000000000000/attendance-email-queue")
	viper.SetDefault("AWS_ENDPOINT", "")
	viper.SetDefault("EMAIL_SENDER", "attendance@hr-suite.example.com")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}

// CutoffMinute parses CheckInCutoff into a minute-of-day.
func (c Config) CutoffMinute() (int, error) {
	parts := strings.SplitN(c.CheckInCutoff, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid cutoff %q, want HH:MM", c.CheckInCutoff)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid cutoff hour in %q", c.CheckInCutoff)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid cutoff minute in %q", c.CheckInCutoff)
	}
	return hour*60 + minute, nil
}

// HalfDayThreshold converts the configured hours into a duration.
func (c Config) HalfDayThreshold() time.Duration {
	return time.Duration(c.HalfDayThresholdHours * float64(time.Hour))
}

// Token lifetimes: one day access, one week refresh.
const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)
