package main

import (
	"fleet/config"
	"fleet/di"
	"fleet/shared/logger"

	_ "fleet/docs"
)

// @title Fleet Vehicle Rental API
// @version 1.0
// @description Vehicle rental service with atomic reservations, booking lifecycle and automatic returns.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
