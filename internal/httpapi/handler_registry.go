package httpapi

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"oval-editor/internal/models"
	"oval-editor/internal/registry"
)

type variantSummary struct {
	Name         string        `json:"name"`
	FriendlyName string        `json:"friendly_name"`
	Family       models.Family `json:"family"`
	Deprecated   bool          `json:"deprecated,omitempty"`
}

type propertyDetail struct {
	Name       string             `json:"name"`
	Wrapper    models.WrapperKind `json:"wrapper"`
	Datatype   models.Datatype    `json:"datatype"`
	Datatypes  []models.Datatype  `json:"datatypes,omitempty"`
	Operations []models.Operation `json:"operations"`
	Values     []string           `json:"values,omitempty"`
}

type variantDetail struct {
	variantSummary
	Kind       models.BaseKind  `json:"kind"`
	Properties []propertyDetail `json:"properties"`
	Behaviors  []string         `json:"behaviors,omitempty"`
}

func parseKind(raw string) (models.BaseKind, error) {
	k, ok := models.ParseBaseKind(strings.TrimSuffix(raw, "s"))
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", errBadRequest, raw)
	}
	return k, nil
}

func summarize(v *registry.Variant) variantSummary {
	return variantSummary{Name: v.Name, FriendlyName: v.FriendlyName(), Family: v.Family, Deprecated: v.Deprecated}
}

// RegistryKindHandler lists the variants of a kind. Deprecated variants are
// hidden unless ?all=true.
func RegistryKindHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		var list []*registry.Variant
		if r.URL.Query().Get("all") == "true" {
			list = d.Registry.Variants(kind)
		} else {
			for _, family := range models.Families {
				list = append(list, d.Registry.Available(kind)[family]...)
			}
		}

		items := make([]variantSummary, 0, len(list))
		for _, v := range list {
			items = append(items, summarize(v))
		}
		writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "items": items})
	}
}

// RegistryVariantHandler describes one variant: its properties in schema
// order with the wrapper kind each resolves to.
func RegistryVariantHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "variant")
		v, ok := d.Registry.Lookup(name)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: variant %s", models.ErrNotFound, name))
			return
		}

		detail := variantDetail{variantSummary: summarize(v), Kind: v.Kind, Properties: []propertyDetail{}}
		for _, p := range v.Properties {
			wk := d.Factory.Table.Classify(p.Name, v.Name, v.Kind)
			info := wk.Info()
			dt := p.Datatype
			if len(info.Datatypes) > 0 && !slices.Contains(info.Datatypes, dt) {
				dt = info.DefaultDatatype
			}
			detail.Properties = append(detail.Properties, propertyDetail{
				Name:       p.Name,
				Wrapper:    wk,
				Datatype:   dt,
				Datatypes:  info.Datatypes,
				Operations: models.LegalOperations(dt),
				Values:     info.Values,
			})
		}
		if v.Behaviors {
			detail.Behaviors = models.BehaviorsShapeFor(v.Name).Keys()
		}
		writeJSON(w, http.StatusOK, detail)
	}
}
