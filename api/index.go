package handler

import (
	"net/http"

	"fleet/config"
	"fleet/di"
	"fleet/shared/logger"

	_ "fleet/docs"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	handler := di.InitializeService()
	handler.ServeHTTP(w, r)
}
