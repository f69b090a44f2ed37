package factory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oval-editor/internal/classify"
	"oval-editor/internal/models"
	"oval-editor/internal/registry"
)

func newFactory() *Factory {
	return New(registry.New(), classify.New())
}

func fields(t *testing.T, raw string) Fields {
	t.Helper()
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func propNames(set models.PropertySet) []string {
	var out []string
	for _, p := range set.All() {
		out = append(out, p.Name)
	}
	return out
}

func TestCreateFileObject(t *testing.T) {
	e, err := newFactory().Create("file_object", fields(t, `{
		"id": "oval:x:obj:1",
		"filename": {"value": "passwd"},
		"path": {"value": "/etc"}
	}`), models.KindObject)
	require.NoError(t, err)

	o := e.(*models.Object)
	assert.Equal(t, "oval:x:obj:1", o.ID)
	assert.Equal(t, models.FamilyUnix, o.Family)
	assert.Equal(t, 1, o.Version)
	assert.Nil(t, o.Behaviors)
	assert.Equal(t, []string{"path", "filename"}, propNames(o.Properties))

	path := o.Properties.Get("path")
	assert.Equal(t, models.ObjectString, path.Kind)
	assert.Equal(t, "/etc", path.Value)
	assert.Empty(t, path.Datatype)
	assert.Empty(t, path.Operation)
}

func TestCreateErrors(t *testing.T) {
	f := newFactory()
	tests := []struct {
		name    string
		variant string
		raw     string
		kind    models.BaseKind
		wantErr error
	}{
		{"unknown variant", "widget_object", `{"id": "a"}`, models.KindObject, ErrUnknownVariant},
		{"kind mismatch", "file_state", `{"id": "a"}`, models.KindObject, ErrKindMismatch},
		{"no fields", "file_object", `{}`, models.KindObject, ErrMissingInput},
		{"variable without datatype", "constant_variable", `{"id": "a", "value": ["1"]}`, models.KindVariable, ErrMissingInput},
		{"bad version", "file_object", `{"id": "a", "version": "0"}`, models.KindObject, ErrInvalidInput},
		{"bad check", "file_test", `{"id": "a", "check": "most"}`, models.KindTest, ErrInvalidInput},
		{"bad mask", "file_object", `{"id": "a", "path": {"value": "/", "mask": "maybe"}}`, models.KindObject, ErrInvalidInput},
		{"bad filter action", "file_object", `{"id": "a", "filter": {"action": "keep", "state_id": "s"}}`, models.KindObject, ErrInvalidInput},
		{"bad state operator", "file_state", `{"id": "a", "operator": "NAND"}`, models.KindState, ErrInvalidInput},
		{"bad datatype", "constant_variable", `{"id": "a", "datatype": "uuid"}`, models.KindVariable, ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Create(tc.variant, fields(t, tc.raw), tc.kind)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateTestDefaults(t *testing.T) {
	e, err := newFactory().Create("file_test", fields(t, `{"id": "oval:x:tst:1", "object_ref": "", "state_ref": "oval:x:ste:1"}`), models.KindTest)
	require.NoError(t, err)

	tst := e.(*models.Test)
	assert.Equal(t, models.CheckAll, tst.Check)
	assert.Equal(t, models.ExistenceAtLeastOneExists, tst.CheckExistence)
	assert.Equal(t, models.OperatorAND, tst.StateOperator)
	assert.Empty(t, tst.ObjectRef)
	assert.Equal(t, []string{"oval:x:ste:1"}, tst.StateRefs)
}

func TestUpdateTest(t *testing.T) {
	f := newFactory()
	e, err := f.Create("file_test", fields(t, `{"id": "oval:x:tst:1", "object_ref": "oval:x:obj:1", "state_ref": "oval:x:ste:1"}`), models.KindTest)
	require.NoError(t, err)

	require.NoError(t, f.Update(e, fields(t, `{"check": "at_least_one", "check_existence": "none exist", "state_ref": ""}`), models.KindTest))
	tst := e.(*models.Test)
	assert.Equal(t, models.CheckAtLeastOne, tst.Check)
	assert.Equal(t, models.ExistenceNoneExist, tst.CheckExistence)
	assert.Equal(t, "oval:x:obj:1", tst.ObjectRef)
	assert.Nil(t, tst.StateRefs)

	require.NoError(t, f.Update(e, fields(t, `{"object_ref": ""}`), models.KindTest))
	assert.Empty(t, tst.ObjectRef)

	// an invalid value changes nothing, common attributes included
	err = f.Update(e, fields(t, `{"comment": "new", "state_operator": "sometimes"}`), models.KindTest)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, tst.Comment)
}

func TestUpdateKindMismatch(t *testing.T) {
	f := newFactory()
	e, err := f.Create("file_state", fields(t, `{"id": "oval:x:ste:1"}`), models.KindState)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Update(e, fields(t, `{"comment": "x"}`), models.KindObject), ErrKindMismatch)
	assert.ErrorIs(t, f.Update(nil, fields(t, `{"comment": "x"}`), models.KindState), ErrMissingInput)
}

func TestUpdateMergesProperties(t *testing.T) {
	f := newFactory()
	e, err := f.Create("file_state", fields(t, `{
		"id": "oval:x:ste:1",
		"user_id": {"value": "0", "datatype": "int"},
		"filepath": {"value": "/etc/.*", "operation": "pattern match"}
	}`), models.KindState)
	require.NoError(t, err)
	s := e.(*models.State)
	assert.Equal(t, []string{"filepath", "user_id"}, propNames(s.Properties))
	assert.Equal(t, models.StateInt, s.Properties.Get("user_id").Kind)

	require.NoError(t, f.Update(e, fields(t, `{
		"filepath": {"value": "/etc/shadow"},
		"user_id": {"value": ""},
		"suid": {"value": "false"},
		"no_such_thing": {"value": "x"},
		"operator": "or"
	}`), models.KindState))

	assert.Equal(t, models.OperatorOR, s.Operator)
	assert.Equal(t, []string{"filepath", "suid"}, propNames(s.Properties))
	fp := s.Properties.Get("filepath")
	assert.Equal(t, "/etc/shadow", fp.Value)
	assert.Equal(t, models.OpPatternMatch, fp.Operation)
	assert.Equal(t, models.StateBool, s.Properties.Get("suid").Kind)
}

func TestUpdateIsIdempotent(t *testing.T) {
	f := newFactory()
	e, err := f.Create("textfilecontent54_object", fields(t, `{"id": "oval:x:obj:1", "filepath": {"value": "/etc/issue"}}`), models.KindObject)
	require.NoError(t, err)

	update := `{"pattern": {"value": "^Ubuntu", "operation": "pattern_match"}, "instance": {"value": "1", "datatype": "int"},
		"behaviors": {"multiline": false}, "filter": {"state_id": "oval:x:ste:9"}}`
	require.NoError(t, f.Update(e, fields(t, update), models.KindObject))
	once, err := json.Marshal(e)
	require.NoError(t, err)

	require.NoError(t, f.Update(e, fields(t, update), models.KindObject))
	twice, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, string(once), string(twice))

	// clearing twice is as good as clearing once
	reset := `{"pattern": {"value": ""}, "filter": {"state_id": ""}, "behaviors": {"multiline": ""}}`
	require.NoError(t, f.Update(e, fields(t, reset), models.KindObject))
	require.NoError(t, f.Update(e, fields(t, reset), models.KindObject))
	o := e.(*models.Object)
	assert.Nil(t, o.Properties.Get("pattern"))
	assert.Nil(t, o.Filters)
	assert.Nil(t, o.Behaviors)
}

func TestUpdateAfterCreateChangesNothing(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		kind    models.BaseKind
		raw     string
	}{
		{
			name:    "object",
			variant: "file_object",
			kind:    models.KindObject,
			raw: `{"id": "oval:x:obj:1", "comment": "etc",
				"path": {"value": "/etc", "datatype": "string", "operation": "pattern match", "mask": true, "var_ref": "oval:x:var:1"},
				"filename": {"value": "passwd"},
				"behaviors": {"recurse": "directories", "max_depth": "2"},
				"filter": {"action": "exclude", "state_id": "oval:x:ste:1"}}`,
		},
		{
			name:    "state",
			variant: "file_state",
			kind:    models.KindState,
			raw:     `{"id": "oval:x:ste:1", "operator": "OR", "suid": {"value": "false"}, "user_id": {"value": "0", "operation": "equals"}}`,
		},
		{
			name:    "test",
			variant: "file_test",
			kind:    models.KindTest,
			raw:     `{"id": "oval:x:tst:1", "check": "at least one", "object_ref": "oval:x:obj:1", "state_ref": "oval:x:ste:1"}`,
		},
		{
			name:    "constant variable",
			variant: "constant_variable",
			kind:    models.KindVariable,
			raw:     `{"id": "oval:x:var:1", "datatype": "string", "value": ["a", "b"]}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFactory()
			e, err := f.Create(tc.variant, fields(t, tc.raw), tc.kind)
			require.NoError(t, err)
			created, err := json.Marshal(e)
			require.NoError(t, err)

			require.NoError(t, f.Update(e, fields(t, tc.raw), tc.kind))
			updated, err := json.Marshal(e)
			require.NoError(t, err)
			assert.JSONEq(t, string(created), string(updated))
		})
	}
}

func TestFailedUpdateLeavesEntityUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		kind    models.BaseKind
		create  string
		update  string
	}{
		{
			name:    "bad filter action after rename",
			variant: "file_object",
			kind:    models.KindObject,
			create:  `{"id": "oval:x:obj:1", "path": {"value": "/etc"}}`,
			update:  `{"id": "oval:x:obj:2", "version": "5", "comment": "c", "filter": {"action": "bogus", "state_id": "oval:x:ste:1"}}`,
		},
		{
			name:    "bad mask after a good property",
			variant: "file_object",
			kind:    models.KindObject,
			create:  `{"id": "oval:x:obj:1", "path": {"value": "/etc"}}`,
			update:  `{"filename": {"value": "passwd"}, "path": {"value": "/tmp", "mask": "maybe"}}`,
		},
		{
			name:    "bad version",
			variant: "file_object",
			kind:    models.KindObject,
			create:  `{"id": "oval:x:obj:1", "path": {"value": "/etc"}}`,
			update:  `{"comment": "c", "version": "0", "path": {"value": "/tmp"}}`,
		},
		{
			name:    "bad state operator",
			variant: "file_state",
			kind:    models.KindState,
			create:  `{"id": "oval:x:ste:1", "suid": {"value": "true"}}`,
			update:  `{"comment": "c", "suid": {"value": "false"}, "operator": "NAND"}`,
		},
		{
			name:    "bad check existence",
			variant: "file_test",
			kind:    models.KindTest,
			create:  `{"id": "oval:x:tst:1", "object_ref": "oval:x:obj:1"}`,
			update:  `{"comment": "c", "object_ref": "oval:x:obj:2", "check_existence": "maybe"}`,
		},
		{
			name:    "bad variable datatype",
			variant: "constant_variable",
			kind:    models.KindVariable,
			create:  `{"id": "oval:x:var:1", "datatype": "string", "value": ["a"]}`,
			update:  `{"comment": "changed", "datatype": "nonsense", "value": ["b"]}`,
		},
		{
			name:    "bad restriction operator",
			variant: "external_variable",
			kind:    models.KindVariable,
			create:  `{"id": "oval:x:var:2", "datatype": "int", "possible_value": [{"hint": "h", "value": "1"}]}`,
			update:  `{"comment": "c", "possible_restriction": [{"operator": "NAND", "restrictions": []}]}`,
		},
		{
			name:    "bad local component",
			variant: "local_variable",
			kind:    models.KindVariable,
			create:  `{"id": "oval:x:var:3", "datatype": "string", "component_type": "literal", "literal_value": "x"}`,
			update:  `{"comment": "c", "datatype": "int", "component_type": "magic"}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFactory()
			e, err := f.Create(tc.variant, fields(t, tc.create), tc.kind)
			require.NoError(t, err)
			before, err := json.Marshal(e)
			require.NoError(t, err)

			err = f.Update(e, fields(t, tc.update), tc.kind)
			assert.ErrorIs(t, err, ErrInvalidInput)
			after, err := json.Marshal(e)
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after))
		})
	}
}

func TestBehaviors(t *testing.T) {
	f := newFactory()

	t.Run("materialized only when set", func(t *testing.T) {
		e, err := f.Create("file_object", fields(t, `{"id": "a", "behaviors": {"recurse": ""}}`), models.KindObject)
		require.NoError(t, err)
		assert.Nil(t, e.(*models.Object).Behaviors)
	})

	t.Run("shape filters keys", func(t *testing.T) {
		e, err := f.Create("rpminfo_object", fields(t, `{"id": "a", "behaviors": {"filepaths": true, "recurse": "directories"}}`), models.KindObject)
		require.NoError(t, err)
		b := e.(*models.Object).Behaviors
		require.NotNil(t, b)
		assert.Equal(t, models.RpmInfoBehaviors, b.Shape)
		assert.Equal(t, map[string]string{"filepaths": "true"}, b.Attrs)
	})

	t.Run("ignored without behaviors", func(t *testing.T) {
		e, err := f.Create("sysctl_object", fields(t, `{"id": "a", "behaviors": {"recurse": "directories"}}`), models.KindObject)
		require.NoError(t, err)
		assert.Nil(t, e.(*models.Object).Behaviors)
	})

	t.Run("update edits one key", func(t *testing.T) {
		e, err := f.Create("file_object", fields(t, `{"id": "a", "behaviors": {"max_depth": -1, "recurse_direction": "down"}}`), models.KindObject)
		require.NoError(t, err)
		require.NoError(t, f.Update(e, fields(t, `{"behaviors": {"max_depth": "", "recurse": "directories"}}`), models.KindObject))
		assert.Equal(t, map[string]string{"recurse_direction": "down", "recurse": "directories"}, e.(*models.Object).Behaviors.Attrs)
	})
}

func TestFilters(t *testing.T) {
	f := newFactory()
	e, err := f.Create("file_object", fields(t, `{"id": "a", "filter": {"state_id": "oval:x:ste:1"}}`), models.KindObject)
	require.NoError(t, err)
	o := e.(*models.Object)
	assert.Equal(t, []models.Filter{{Action: models.FilterInclude, StateRef: "oval:x:ste:1"}}, o.Filters)

	require.NoError(t, f.Update(e, fields(t, `{"filter": {"action": "exclude", "state_id": "oval:x:ste:2"}}`), models.KindObject))
	assert.Equal(t, []models.Filter{{Action: models.FilterExclude, StateRef: "oval:x:ste:2"}}, o.Filters)

	require.NoError(t, f.Update(e, fields(t, `{"filter": {"state_id": ""}}`), models.KindObject))
	assert.Nil(t, o.Filters)
}

func TestConstantVariable(t *testing.T) {
	f := newFactory()
	e, err := f.Create("constant_variable", fields(t, `{"id": "oval:x:var:1", "datatype": "version", "value": ["1.0", "2.0"]}`), models.KindVariable)
	require.NoError(t, err)
	v := e.(*models.Variable)
	assert.Equal(t, models.DatatypeVersion, v.Datatype)
	assert.Equal(t, &models.ConstantBody{Values: []string{"1.0", "2.0"}}, v.Body)

	require.NoError(t, f.Update(e, fields(t, `{"value": ["3.0"]}`), models.KindVariable))
	assert.Equal(t, &models.ConstantBody{Values: []string{"3.0"}}, v.Body)

	require.NoError(t, f.Update(e, fields(t, `{"comment": "only the comment"}`), models.KindVariable))
	assert.Equal(t, &models.ConstantBody{Values: []string{"3.0"}}, v.Body)
}

func TestExternalVariable(t *testing.T) {
	f := newFactory()
	e, err := f.Create("external_variable", fields(t, `{
		"id": "oval:x:var:2", "datatype": "int",
		"possible_value": [{"hint": "root", "value": "0"}],
		"possible_restriction": [{"hint": "range", "restrictions": [
			{"operation": "greater_than", "value": "0"}, {"operation": "less than", "value": "100"}
		]}]
	}`), models.KindVariable)
	require.NoError(t, err)

	body := e.(*models.Variable).Body.(*models.ExternalBody)
	assert.Equal(t, []models.PossibleValue{{Hint: "root", Value: "0"}}, body.PossibleValues)
	require.Len(t, body.PossibleRestrictions, 1)
	r := body.PossibleRestrictions[0]
	assert.Equal(t, models.OperatorAND, r.Operator)
	assert.Equal(t, []models.Restriction{
		{Operation: models.OpGreaterThan, Value: "0"},
		{Operation: models.OpLessThan, Value: "100"},
	}, r.Restrictions)

	// a body key rebuilds the whole body
	require.NoError(t, f.Update(e, fields(t, `{"possible_value": []}`), models.KindVariable))
	body = e.(*models.Variable).Body.(*models.ExternalBody)
	assert.Empty(t, body.PossibleValues)
	assert.Empty(t, body.PossibleRestrictions)
}

func TestLocalVariable(t *testing.T) {
	f := newFactory()

	tests := []struct {
		name string
		raw  string
		want models.Component
	}{
		{
			name: "literal",
			raw:  `{"id": "v", "datatype": "string", "component_type": "literal", "literal_value": "abc"}`,
			want: &models.LiteralComponent{Value: "abc"},
		},
		{
			name: "variable",
			raw:  `{"id": "v", "datatype": "string", "component_type": "variable", "var_ref": "oval:x:var:1"}`,
			want: &models.VariableComponent{VarRef: "oval:x:var:1"},
		},
		{
			name: "object",
			raw:  `{"id": "v", "datatype": "string", "component_type": "object", "object_ref": "oval:x:obj:1", "item_field": "filepath"}`,
			want: &models.ObjectComponent{ObjectRef: "oval:x:obj:1", ItemField: "filepath"},
		},
		{
			name: "no component yet",
			raw:  `{"id": "v", "datatype": "string"}`,
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := f.Create("local_variable", fields(t, tc.raw), models.KindVariable)
			require.NoError(t, err)
			body := e.(*models.Variable).Body.(*models.LocalBody)
			assert.Equal(t, tc.want, body.Component)
		})
	}
}

func TestLocalVariableFunction(t *testing.T) {
	f := newFactory()
	e, err := f.Create("local_variable", fields(t, `{
		"id": "oval:x:var:3", "datatype": "string",
		"component_type": "function", "function_type": "concat",
		"components_data": [
			{"type": "literal", "value": "/home/"},
			{"type": "object", "object_ref": "oval:x:obj:1", "item_field": "username"}
		]
	}`), models.KindVariable)
	require.NoError(t, err)

	group := e.(*models.Variable).Body.(*models.LocalBody).Component.(*models.FunctionGroup)
	assert.Equal(t, models.FunctionConcat, group.Function.Type)
	assert.Len(t, group.Function.Components, 2)

	// updates that do not name a component keep the tree
	require.NoError(t, f.Update(e, fields(t, `{"comment": "home dirs"}`), models.KindVariable))
	assert.Same(t, group, e.(*models.Variable).Body.(*models.LocalBody).Component)

	err = f.Update(e, fields(t, `{"component_type": "function", "function_type": "time_difference",
		"components_data": [{"type": "literal", "value": "1"}, {"type": "literal", "value": "2"}, {"type": "literal", "value": "3"}]}`),
		models.KindVariable)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Same(t, group, e.(*models.Variable).Body.(*models.LocalBody).Component)

	_, err = f.Create("local_variable", fields(t, `{"id": "v", "datatype": "string", "component_type": "magic"}`), models.KindVariable)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFieldsUnmarshal(t *testing.T) {
	f := fields(t, `{
		"id": " oval:x:obj:1 ",
		"version": 2,
		"path": {"value": "/etc", "mask": true},
		"behaviors": {"max_depth": 3},
		"value": ["a"],
		"ignored_list": [1, 2]
	}`)
	assert.Equal(t, "oval:x:obj:1", f.String("id"))
	assert.Equal(t, "2", f.String("version"))
	assert.True(t, f.Has("version"))
	assert.False(t, f.Has("comment"))
	assert.Equal(t, "true", string(f.Properties["path"].Mask))
	assert.Equal(t, map[string]string{"max_depth": "3"}, f.Behaviors)
	assert.Equal(t, []string{"a"}, f.Values)
	assert.False(t, f.IsEmpty())

	var bad Fields
	assert.Error(t, json.Unmarshal([]byte(`{"filter": "nope"}`), &bad))
	assert.True(t, Fields{}.IsEmpty())
}
