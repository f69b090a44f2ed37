package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"

	"oval-editor/internal/config"
	"oval-editor/internal/factory"
	"oval-editor/internal/registry"
	"oval-editor/internal/session"
	"oval-editor/internal/validate"
)

// DB is the part of a pgx pool the API uses. It is nil when no database is
// configured, which disables snapshots.
type DB interface {
	BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type Deps struct {
	Config    *config.Config
	Registry  *registry.Registry
	Factory   *factory.Factory
	Validator *validate.Validator
	Sessions  *session.Manager
	DB        DB
}

func NewRouter(d *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware)
	r.Use(RecoverMiddleware)

	r.Get("/health", HealthHandler(d.DB))
	r.Get("/version", VersionHandler(d.Config))

	if len(d.Config.APIKeys) == 0 {
		slog.Warn("no api keys configured, the editor api is open")
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(APIKeyAuth(d.Config))

		api.Get("/registry/variants/{variant}", RegistryVariantHandler(d))
		api.Get("/registry/{kind}", RegistryKindHandler(d))

		api.Post("/documents", CreateDocumentHandler(d))
		api.Route("/documents/{docID}", func(doc chi.Router) {
			doc.Get("/", GetDocumentHandler(d))
			doc.Delete("/", DeleteDocumentHandler(d))
			doc.Get("/xml", DocumentXMLHandler(d))
			doc.Get("/validation", ValidationHandler(d))
			doc.Post("/snapshots", CreateSnapshotHandler(d))
			doc.Get("/snapshots", ListSnapshotsHandler(d))

			doc.Get("/entities/{kind}", ListEntitiesHandler(d))
			doc.Post("/entities/{kind}", CreateEntityHandler(d))
			doc.Get("/entities/{kind}/{id}", GetEntityHandler(d))
			doc.Put("/entities/{kind}/{id}", UpdateEntityHandler(d))
			doc.Delete("/entities/{kind}/{id}", DeleteEntityHandler(d))

			doc.Post("/definitions", CreateDefinitionHandler(d))
			doc.Get("/definitions/{id}", GetDefinitionHandler(d))
			doc.Put("/definitions/{id}", UpdateDefinitionHandler(d))
			doc.Delete("/definitions/{id}", DeleteDefinitionHandler(d))
			doc.Post("/definitions/{id}/criteria", AddCriteriaHandler(d))
			doc.Put("/definitions/{id}/criteria", EditCriteriaHandler(d))
			doc.Delete("/definitions/{id}/criteria", RemoveCriteriaHandler(d))
		})
	})

	return r
}
