package models

// Entity is implemented by Test, Object, State and Variable.
type Entity interface {
	Kind() BaseKind
	Base() *Common
}

// Common holds the attributes every entity carries.
type Common struct {
	ID         string `json:"id"`
	Variant    string `json:"variant"`
	Family     Family `json:"family"`
	Version    int    `json:"version"`
	Comment    string `json:"comment,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

func (c *Common) Base() *Common { return c }

type Test struct {
	Common
	Check          Check     `json:"check"`
	CheckExistence Existence `json:"check_existence"`
	StateOperator  Operator  `json:"state_operator,omitempty"`
	// ObjectRef and StateRefs are ids resolved at lookup time.
	ObjectRef string   `json:"object_ref,omitempty"`
	StateRefs []string `json:"state_refs,omitempty"`
}

func (*Test) Kind() BaseKind { return KindTest }

type Object struct {
	Common
	Behaviors  *Behaviors  `json:"behaviors,omitempty"`
	Filters    []Filter    `json:"filters,omitempty"`
	Properties PropertySet `json:"properties"`
}

func (*Object) Kind() BaseKind { return KindObject }

type State struct {
	Common
	Operator   Operator    `json:"operator"`
	Properties PropertySet `json:"properties"`
}

func (*State) Kind() BaseKind { return KindState }

type FilterAction string

const (
	FilterInclude FilterAction = "include"
	FilterExclude FilterAction = "exclude"
)

// Filter narrows an object's items by a state id.
type Filter struct {
	Action   FilterAction `json:"action"`
	StateRef string       `json:"state_ref"`
}

// BehaviorsShape selects which behavior attributes an object accepts.
type BehaviorsShape string

const (
	FileBehaviors              BehaviorsShape = "file"
	Textfilecontent54Behaviors BehaviorsShape = "textfilecontent54"
	RpmInfoBehaviors           BehaviorsShape = "rpminfo"
	RpmVerifyPackageBehaviors  BehaviorsShape = "rpmverifypackage"
	RpmVerifyFileBehaviors     BehaviorsShape = "rpmverifyfile"
	RpmVerifyBehaviors         BehaviorsShape = "rpmverify"
)

var (
	fileBehaviorKeys      = []string{"max_depth", "recurse", "recurse_direction", "recurse_file_system", "windows_view"}
	rpmVerifyFileFlagKeys = []string{
		"nolinkto", "nomd5", "nosize", "nouser", "nogroup", "nomtime", "nomode", "nordev",
		"noconfigfiles", "noghostfiles",
	}
	behaviorKeys = map[BehaviorsShape][]string{
		FileBehaviors:              fileBehaviorKeys,
		Textfilecontent54Behaviors: append(append([]string{}, fileBehaviorKeys...), "ignore_case", "multiline", "singleline"),
		RpmInfoBehaviors:           {"filepaths"},
		RpmVerifyPackageBehaviors:  {"nodeps", "nodigest", "noscripts", "nosignature"},
		RpmVerifyFileBehaviors:     rpmVerifyFileFlagKeys,
		RpmVerifyBehaviors:         append([]string{"nodeps", "nodigest", "nofiles", "noscripts", "nosignature"}, rpmVerifyFileFlagKeys...),
	}
)

// BehaviorsShapeFor picks the behaviors shape of an object variant.
func BehaviorsShapeFor(variant string) BehaviorsShape {
	switch variant {
	case "textfilecontent54_object":
		return Textfilecontent54Behaviors
	case "rpminfo_object":
		return RpmInfoBehaviors
	case "rpmverifypackage_object":
		return RpmVerifyPackageBehaviors
	case "rpmverifyfile_object":
		return RpmVerifyFileBehaviors
	case "rpmverify_object":
		return RpmVerifyBehaviors
	default:
		return FileBehaviors
	}
}

// Keys lists the attributes of the shape in schema order.
func (s BehaviorsShape) Keys() []string {
	return behaviorKeys[s]
}

func (s BehaviorsShape) Allows(key string) bool {
	for _, k := range behaviorKeys[s] {
		if k == key {
			return true
		}
	}
	return false
}

type Behaviors struct {
	Shape BehaviorsShape    `json:"shape"`
	Attrs map[string]string `json:"attrs"`
}

func NewBehaviors(shape BehaviorsShape) *Behaviors {
	return &Behaviors{Shape: shape, Attrs: map[string]string{}}
}

// Set stores the attribute when the shape has it and reports whether it did.
func (b *Behaviors) Set(key, value string) bool {
	if !b.Shape.Allows(key) {
		return false
	}
	b.Attrs[key] = value
	return true
}

func (b *Behaviors) Get(key string) (string, bool) {
	v, ok := b.Attrs[key]
	return v, ok
}
