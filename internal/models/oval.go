package models

import "strings"

// BaseKind is the abstract capability of an entity.
type BaseKind string

const (
	KindTest     BaseKind = "test"
	KindObject   BaseKind = "object"
	KindState    BaseKind = "state"
	KindVariable BaseKind = "variable"
)

// BaseKinds lists the entity kinds in document order.
var BaseKinds = []BaseKind{KindTest, KindObject, KindState, KindVariable}

func ParseBaseKind(s string) (BaseKind, bool) {
	switch k := BaseKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTest, KindObject, KindState, KindVariable:
		return k, true
	}
	return "", false
}

// IDTag is the kind segment used in generated ids (oval:prefix:tst:1).
func (k BaseKind) IDTag() string {
	switch k {
	case KindTest:
		return "tst"
	case KindObject:
		return "obj"
	case KindState:
		return "ste"
	case KindVariable:
		return "var"
	}
	return ""
}

// Family is the platform scoping of a variant.
type Family string

const (
	FamilyIndependent Family = "independent"
	FamilyLinux       Family = "linux"
	FamilyUnix        Family = "unix"
	FamilySolaris     Family = "solaris"
	FamilyCore        Family = "core"
)

var Families = []Family{FamilyIndependent, FamilyLinux, FamilyUnix, FamilySolaris, FamilyCore}

func ParseFamily(s string) (Family, bool) {
	switch f := Family(strings.ToLower(strings.TrimSpace(s))); f {
	case FamilyIndependent, FamilyLinux, FamilyUnix, FamilySolaris, FamilyCore:
		return f, true
	}
	return "", false
}

type Datatype string

const (
	DatatypeString          Datatype = "string"
	DatatypeInt             Datatype = "int"
	DatatypeBoolean         Datatype = "boolean"
	DatatypeVersion         Datatype = "version"
	DatatypeIPv4Address     Datatype = "ipv4_address"
	DatatypeIPv6Address     Datatype = "ipv6_address"
	DatatypeFloat           Datatype = "float"
	DatatypeEVRString       Datatype = "evr_string"
	DatatypeBinary          Datatype = "binary"
	DatatypeFilesetRevision Datatype = "fileset_revision"
	DatatypeRecord          Datatype = "record"
)

var Datatypes = []Datatype{
	DatatypeString, DatatypeInt, DatatypeBoolean, DatatypeVersion,
	DatatypeIPv4Address, DatatypeIPv6Address, DatatypeFloat, DatatypeEVRString,
	DatatypeBinary, DatatypeFilesetRevision, DatatypeRecord,
}

func ParseDatatype(s string) (Datatype, bool) {
	d := Datatype(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Datatypes {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// Operation values use the schema spelling ("not equal").
type Operation string

const (
	OpEquals                  Operation = "equals"
	OpNotEqual                Operation = "not equal"
	OpCaseInsensitiveEquals   Operation = "case insensitive equals"
	OpCaseInsensitiveNotEqual Operation = "case insensitive not equal"
	OpGreaterThan             Operation = "greater than"
	OpLessThan                Operation = "less than"
	OpGreaterThanOrEqual      Operation = "greater than or equal"
	OpLessThanOrEqual         Operation = "less than or equal"
	OpBitwiseAnd              Operation = "bitwise and"
	OpBitwiseOr               Operation = "bitwise or"
	OpPatternMatch            Operation = "pattern match"
	OpSubsetOf                Operation = "subset of"
	OpSupersetOf              Operation = "superset of"
)

var Operations = []Operation{
	OpEquals, OpNotEqual, OpCaseInsensitiveEquals, OpCaseInsensitiveNotEqual,
	OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
	OpBitwiseAnd, OpBitwiseOr, OpPatternMatch, OpSubsetOf, OpSupersetOf,
}

// ParseOperation accepts both "not equal" and "not_equal".
func ParseOperation(s string) (Operation, bool) {
	op := Operation(normalizeSpaced(s))
	for _, known := range Operations {
		if op == known {
			return op, true
		}
	}
	return "", false
}

var (
	stringOperations = []Operation{
		OpEquals, OpNotEqual, OpCaseInsensitiveEquals, OpCaseInsensitiveNotEqual, OpPatternMatch,
	}
	numericOperations = []Operation{
		OpEquals, OpNotEqual, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
		OpBitwiseAnd, OpBitwiseOr,
	}
	orderedOperations = []Operation{
		OpEquals, OpNotEqual, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
	}
	addressOperations = []Operation{
		OpEquals, OpNotEqual, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
		OpSubsetOf, OpSupersetOf,
	}
	equalityOperations = []Operation{OpEquals, OpNotEqual}
	recordOperations   = []Operation{OpEquals}
)

// LegalOperations returns the operations a datatype may be compared with.
func LegalOperations(dt Datatype) []Operation {
	switch dt {
	case DatatypeString:
		return stringOperations
	case DatatypeInt, DatatypeFloat:
		return numericOperations
	case DatatypeVersion, DatatypeEVRString, DatatypeFilesetRevision:
		return orderedOperations
	case DatatypeIPv4Address, DatatypeIPv6Address:
		return addressOperations
	case DatatypeBoolean, DatatypeBinary:
		return equalityOperations
	case DatatypeRecord:
		return recordOperations
	}
	return nil
}

func OperationAllowed(dt Datatype, op Operation) bool {
	if op == "" {
		return true
	}
	for _, legal := range LegalOperations(dt) {
		if legal == op {
			return true
		}
	}
	return false
}

// Operator combines child results (criteria, state properties, restrictions).
type Operator string

const (
	OperatorAND Operator = "AND"
	OperatorOR  Operator = "OR"
	OperatorXOR Operator = "XOR"
	OperatorONE Operator = "ONE"
)

func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(strings.ToUpper(strings.TrimSpace(s))); op {
	case OperatorAND, OperatorOR, OperatorXOR, OperatorONE:
		return op, true
	}
	return "", false
}

// Check values use the schema spelling ("at least one").
type Check string

const (
	CheckAll         Check = "all"
	CheckAtLeastOne  Check = "at least one"
	CheckNoneExist   Check = "none exist"
	CheckNoneSatisfy Check = "none satisfy"
	CheckOnlyOne     Check = "only one"
)

func ParseCheck(s string) (Check, bool) {
	switch c := Check(normalizeSpaced(s)); c {
	case CheckAll, CheckAtLeastOne, CheckNoneExist, CheckNoneSatisfy, CheckOnlyOne:
		return c, true
	}
	return "", false
}

type Existence string

const (
	ExistenceAllExist         Existence = "all_exist"
	ExistenceAnyExist         Existence = "any_exist"
	ExistenceAtLeastOneExists Existence = "at_least_one_exists"
	ExistenceNoneExist        Existence = "none_exist"
	ExistenceOnlyOneExists    Existence = "only_one_exists"
)

func ParseExistence(s string) (Existence, bool) {
	e := Existence(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	switch e {
	case ExistenceAllExist, ExistenceAnyExist, ExistenceAtLeastOneExists, ExistenceNoneExist, ExistenceOnlyOneExists:
		return e, true
	}
	return "", false
}

type DefinitionClass string

const (
	ClassCompliance    DefinitionClass = "compliance"
	ClassInventory     DefinitionClass = "inventory"
	ClassMiscellaneous DefinitionClass = "miscellaneous"
	ClassPatch         DefinitionClass = "patch"
	ClassVulnerability DefinitionClass = "vulnerability"
)

func ParseDefinitionClass(s string) (DefinitionClass, bool) {
	switch c := DefinitionClass(strings.ToLower(strings.TrimSpace(s))); c {
	case ClassCompliance, ClassInventory, ClassMiscellaneous, ClassPatch, ClassVulnerability:
		return c, true
	}
	return "", false
}

func normalizeSpaced(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
}
