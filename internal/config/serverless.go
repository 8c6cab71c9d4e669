package config

import (
	"os"
)

const lambdaDatabasePath = "/tmp/ledger.db"

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// GetServerlessConfig returns the serverless configuration read from the environment
func GetServerlessConfig() *ServerlessConfig {
	return &ServerlessConfig{
		IsLambda:     isRunningInLambda(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return isRunningInLambda()
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment.
// Lambda only allows writes under /tmp, and every cold start gets a fresh
// ledger, so the database is migrated on connect and never backed up.
func AdaptConfigForServerless(config *Config) *Config {
	if !IsServerlessMode() {
		return config
	}

	if os.Getenv("DB_PATH") == "" {
		config.Database.Path = lambdaDatabasePath
	}
	config.Database.MaxOpenConns = 1
	config.Database.MaxIdleConns = 1
	config.Database.AutoMigrate = true
	config.Database.BackupBeforeMigrate = false

	// API Gateway throttles upstream
	config.RateLimit.RPS = 0

	if config.Logging.Format == "text" {
		config.Logging.Format = "json"
	}

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	config = AdaptConfigForServerless(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
