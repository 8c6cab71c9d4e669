package main

import (
	"merchant-bi-api/internal/config"
	"merchant-bi-api/pkg/lambda"

	awslambda "github.com/aws/aws-lambda-go/lambda"
)

var connections *lambda.ConnectionManager

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	connections = lambda.GetConnectionManager()
	connections.SetLedgerExport(config.GetEnv("LEDGER_EXPORT_PATH", ""))

	if err := connections.Initialize(cfg); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func main() {
	awslambda.Start(connections.Handle)
}
