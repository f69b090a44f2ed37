package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"oval-editor/internal/models"
	"oval-editor/internal/ovalxml"
	"oval-editor/internal/session"
	"oval-editor/internal/store"
	"oval-editor/internal/validate"
)

type documentResponse struct {
	ID       string           `json:"id"`
	Document *models.Document `json:"document"`
}

func CreateDocumentHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := d.Sessions.Open()
		_ = s.Do(func(doc *models.Document) error {
			writeJSON(w, http.StatusCreated, documentResponse{ID: s.ID, Document: doc})
			return nil
		})
	}
}

func GetDocumentHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDocument(d, w, r, func(s *session.Session, doc *models.Document) error {
			writeJSON(w, http.StatusOK, documentResponse{ID: s.ID, Document: doc})
			return nil
		})
	}
}

func DeleteDocumentHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sessions.Close(chi.URLParam(r, "docID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DocumentXMLHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			out, err := ovalxml.Render(doc)
			if err != nil {
				return err
			}
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(out)
			return nil
		})
	}
}

type validationResponse struct {
	Valid  bool            `json:"valid"`
	Issues validate.Report `json:"issues"`
}

func ValidationHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			report := d.Validator.Document(doc)
			if report == nil {
				report = validate.Report{}
			}
			writeJSON(w, http.StatusOK, validationResponse{Valid: report.Err() == nil, Issues: report})
			return nil
		})
	}
}

// CreateSnapshotHandler renders the document and stores it as the next
// revision. The document lock is released before the database is touched.
func CreateSnapshotHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.DB == nil {
			writeError(w, r, errNoDatabase)
			return
		}
		s, err := d.Sessions.Get(chi.URLParam(r, "docID"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		var (
			content []byte
			issues  int
		)
		err = s.Do(func(doc *models.Document) error {
			var renderErr error
			content, renderErr = ovalxml.Render(doc)
			issues = len(d.Validator.Document(doc))
			return renderErr
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		snap, err := store.SaveSnapshot(r.Context(), d.DB, s.ID, content, issues)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

func ListSnapshotsHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.DB == nil {
			writeError(w, r, errNoDatabase)
			return
		}
		s, err := d.Sessions.Get(chi.URLParam(r, "docID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		list, err := store.ListSnapshots(r.Context(), d.DB, s.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if list == nil {
			list = []store.Snapshot{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": list})
	}
}
