package httpapi

import (
	"net/http"

	"oval-editor/internal/config"
)

// Version is set at build time with -ldflags "-X oval-editor/internal/httpapi.Version=...".
var Version = "dev"

func VersionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"name":           cfg.ProductName,
			"version":        Version,
			"schema_version": cfg.SchemaVersion,
		})
	}
}
