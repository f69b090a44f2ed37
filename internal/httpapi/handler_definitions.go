package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"oval-editor/internal/criteria"
	"oval-editor/internal/factory"
	"oval-editor/internal/models"
	"oval-editor/internal/session"
)

func lookupDefinition(doc *models.Document, id string) (*models.Definition, error) {
	def, ok := doc.Definition(id)
	if !ok {
		return nil, fmt.Errorf("%w: definition %s", models.ErrNotFound, id)
	}
	return def, nil
}

func CreateDefinitionHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields factory.Fields
		if err := decodeJSON(r, &fields); err != nil {
			writeError(w, r, err)
			return
		}
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			if fields.String("id") == "" {
				if fields.Scalars == nil {
					fields.Scalars = map[string]string{}
				}
				fields.Scalars["id"] = doc.NextID(d.Config.IDPrefix, "def")
			}
			def, err := d.Factory.CreateDefinition(fields)
			if err != nil {
				return err
			}
			if err := doc.AddDefinition(def); err != nil {
				return err
			}
			writeJSON(w, http.StatusCreated, def)
			return nil
		})
	}
}

func GetDefinitionHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			def, err := lookupDefinition(doc, chi.URLParam(r, "id"))
			if err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, def)
			return nil
		})
	}
}

func UpdateDefinitionHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields factory.Fields
		if err := decodeJSON(r, &fields); err != nil {
			writeError(w, r, err)
			return
		}
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			id := chi.URLParam(r, "id")
			def, err := lookupDefinition(doc, id)
			if err != nil {
				return err
			}
			if newID := fields.String("id"); fields.Has("id") && newID != id {
				if newID == "" {
					return fmt.Errorf("%w: id cannot be empty", factory.ErrInvalidInput)
				}
				if _, taken := doc.Definition(newID); taken {
					return fmt.Errorf("%w: definition %s", models.ErrDuplicateID, newID)
				}
			}
			if err := d.Factory.UpdateDefinition(def, fields); err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, def)
			return nil
		})
	}
}

func DeleteDefinitionHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			if err := doc.RemoveDefinition(chi.URLParam(r, "id")); err != nil {
				return err
			}
			w.WriteHeader(http.StatusNoContent)
			return nil
		})
	}
}

// criteriaTarget resolves ?path= within the definition's criteria tree.
func criteriaTarget(doc *models.Document, r *http.Request) (*models.Definition, *criteria.Tree, models.CriteriaNode, *models.Criteria, error) {
	def, err := lookupDefinition(doc, chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	path, err := criteria.ParsePath(r.URL.Query().Get("path"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tree := criteria.NewTree(def.Criteria)
	def.Criteria = tree.Root
	node, parent, err := tree.At(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return def, tree, node, parent, nil
}

// AddCriteriaHandler appends a new node to the criteria at ?path=.
func AddCriteriaHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in criteria.NodeInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			def, tree, node, _, err := criteriaTarget(doc, r)
			if err != nil {
				return err
			}
			parent, ok := node.(*models.Criteria)
			if !ok {
				return criteria.ErrNotCriteria
			}
			child, err := criteria.Build(in)
			if err != nil {
				return err
			}
			if err := tree.AddChild(parent, child); err != nil {
				return err
			}
			writeJSON(w, http.StatusCreated, def)
			return nil
		})
	}
}

// EditCriteriaHandler edits the node at ?path= in place.
func EditCriteriaHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in criteria.NodeInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			def, _, node, _, err := criteriaTarget(doc, r)
			if err != nil {
				return err
			}
			if err := criteria.Edit(node, in); err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, def)
			return nil
		})
	}
}

// RemoveCriteriaHandler detaches the node at ?path=. The root cannot be removed.
func RemoveCriteriaHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDocument(d, w, r, func(_ *session.Session, doc *models.Document) error {
			def, tree, node, parent, err := criteriaTarget(doc, r)
			if err != nil {
				return err
			}
			if err := tree.Remove(parent, node); err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, def)
			return nil
		})
	}
}
