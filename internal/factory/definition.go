package factory

import (
	"fmt"
	"strconv"

	"oval-editor/internal/criteria"
	"oval-editor/internal/models"
)

// CreateDefinition builds a definition with an empty AND root criteria.
func (f *Factory) CreateDefinition(fields Fields) (*models.Definition, error) {
	if !fields.Has(keyID) || fields.String(keyID) == "" {
		return nil, fmt.Errorf("%w: definition needs an id", ErrMissingInput)
	}
	def := &models.Definition{
		Version:  1,
		Class:    models.ClassCompliance,
		Criteria: criteria.NewCriteria(models.OperatorAND, false),
	}
	if err := f.UpdateDefinition(def, fields); err != nil {
		return nil, err
	}
	return def, nil
}

// UpdateDefinition sets the metadata present in fields. The criteria tree is
// edited through the criteria package.
func (f *Factory) UpdateDefinition(def *models.Definition, fields Fields) error {
	class := def.Class
	if fields.Has(keyClass) {
		c, ok := models.ParseDefinitionClass(fields.String(keyClass))
		if !ok {
			return fmt.Errorf("%w: class %q", ErrInvalidInput, fields.String(keyClass))
		}
		class = c
	}
	version := def.Version
	if fields.Has(keyVersion) {
		n, err := strconv.Atoi(fields.String(keyVersion))
		if err != nil || n < 1 {
			return fmt.Errorf("%w: version %q is not a positive integer", ErrInvalidInput, fields.String(keyVersion))
		}
		version = n
	}
	deprecated := def.Deprecated
	if fields.Has(keyDeprecated) {
		b, err := strconv.ParseBool(fields.String(keyDeprecated))
		if err != nil {
			return fmt.Errorf("%w: deprecated %q", ErrInvalidInput, fields.String(keyDeprecated))
		}
		deprecated = b
	}

	def.Class = class
	def.Version = version
	def.Deprecated = deprecated
	if fields.Has(keyID) {
		def.ID = fields.String(keyID)
	}
	if fields.Has(keyTitle) {
		def.Title = fields.String(keyTitle)
	}
	if fields.Has(keyDescription) {
		def.Description = fields.String(keyDescription)
	}
	if def.Criteria == nil {
		def.Criteria = criteria.NewCriteria(models.OperatorAND, false)
	}
	return nil
}
