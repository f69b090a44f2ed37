package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"oval-editor/internal/factory"
	"oval-editor/internal/models"
	"oval-editor/internal/session"
	"oval-editor/internal/validate"
)

type createEntityRequest struct {
	Variant string         `json:"variant"`
	Fields  factory.Fields `json:"fields"`
}

type entityResponse struct {
	Entity   models.Entity   `json:"entity"`
	Warnings validate.Report `json:"warnings,omitempty"`
}

// warnings reports the keys of fields the factory skipped for variant.
func warnings(d *Deps, variant string, fields factory.Fields) validate.Report {
	var report validate.Report
	if len(fields.Properties) > 0 {
		names := make([]string, 0, len(fields.Properties))
		for name := range fields.Properties {
			names = append(names, name)
		}
		report = append(report, d.Validator.Properties(variant, names)...)
	}
	if len(fields.Behaviors) > 0 {
		keys := make([]string, 0, len(fields.Behaviors))
		for k := range fields.Behaviors {
			keys = append(keys, k)
		}
		report = append(report, d.Validator.Behaviors(variant, keys)...)
	}
	return report
}

func lookupEntity(doc *models.Document, kind models.BaseKind, id string) (models.Entity, error) {
	e, ok := doc.Lookup(kind, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, id)
	}
	return e, nil
}

// ListEntitiesHandler lists the entities of a kind. With ?for_test=<variant>
// it lists only the ids a test of that variant can reference.
func ListEntitiesHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			if testVariant := r.URL.Query().Get("for_test"); testVariant != "" {
				ids := d.Registry.MatchingIDs(doc, testVariant, kind)
				if ids == nil {
					ids = []string{}
				}
				writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
				return nil
			}
			items := doc.Entities(kind)
			if items == nil {
				items = []models.Entity{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": items})
			return nil
		})
	}
}

// CreateEntityHandler builds an entity and appends it to the document. A
// missing id is generated from the configured prefix.
func CreateEntityHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req createEntityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			e, err := d.Factory.Create(req.Variant, req.Fields, kind)
			if err != nil {
				return err
			}
			if e.Base().ID == "" {
				e.Base().ID = doc.NextID(d.Config.IDPrefix, kind.IDTag())
			}
			if err := doc.Add(e); err != nil {
				return err
			}
			writeJSON(w, http.StatusCreated, entityResponse{Entity: e, Warnings: warnings(d, req.Variant, req.Fields)})
			return nil
		})
	}
}

func GetEntityHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			e, err := lookupEntity(doc, kind, chi.URLParam(r, "id"))
			if err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, entityResponse{Entity: e})
			return nil
		})
	}
}

// UpdateEntityHandler merges the posted fields into an entity. Renaming to
// an id already in use is rejected and leaves the entity unchanged.
func UpdateEntityHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		var fields factory.Fields
		if err := decodeJSON(r, &fields); err != nil {
			writeError(w, r, err)
			return
		}

		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			id := chi.URLParam(r, "id")
			e, err := lookupEntity(doc, kind, id)
			if err != nil {
				return err
			}
			if newID := fields.String("id"); fields.Has("id") && newID != id {
				if newID == "" {
					return fmt.Errorf("%w: id cannot be empty", factory.ErrInvalidInput)
				}
				if _, taken := doc.Lookup(kind, newID); taken {
					return fmt.Errorf("%w: %s %s", models.ErrDuplicateID, kind, newID)
				}
			}
			if err := d.Factory.Update(e, fields, kind); err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, entityResponse{Entity: e, Warnings: warnings(d, e.Base().Variant, fields)})
			return nil
		})
	}
}

func DeleteEntityHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			if err := doc.Remove(kind, chi.URLParam(r, "id")); err != nil {
				return err
			}
			w.WriteHeader(http.StatusNoContent)
			return nil
		})
	}
}
