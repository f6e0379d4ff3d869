package config

import (
	"fmt"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	AWS         AWSConfig
	Payments    PaymentsConfig
}

type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type PaymentsConfig struct {
	AccessToken string
	MockMode    bool
}

// NewConfig loads service configuration from the environment (with an
// optional .env file). Local-friendly defaults keep the service bootable
// against DynamoDB Local without any configuration.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("SERVICE_HOST", "0.0.0.0")
	viper.SetDefault("SERVICE_PORT", 8080)
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ACCESS_KEY_ID", "local")
	viper.SetDefault("AWS_SECRET_ACCESS_KEY", "local")
	viper.AutomaticEnv()

	cfg := &Config{
		ServiceHost: viper.GetString("SERVICE_HOST"),
		ServicePort: viper.GetInt("SERVICE_PORT"),
		AWS: AWSConfig{
			Region:          viper.GetString("AWS_REGION"),
			Endpoint:        viper.GetString("DYNAMODB_ENDPOINT"),
			AccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
		},
		Payments: PaymentsConfig{
			AccessToken: viper.GetString("MERCADOPAGO_ACCESS_TOKEN"),
			MockMode:    viper.GetBool("PAYMENT_GATEWAY_MOCK"),
		},
	}

	if cfg.ServicePort <= 0 {
		return nil, fmt.Errorf("invalid SERVICE_PORT %d", cfg.ServicePort)
	}

	log.Printf("[config] loaded host=%s port=%d region=%s dynamodb_endpoint=%q payment_mock=%t",
		cfg.ServiceHost, cfg.ServicePort, cfg.AWS.Region, cfg.AWS.Endpoint, cfg.Payments.MockMode)
	return cfg, nil
}
