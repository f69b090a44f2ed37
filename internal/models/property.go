package models

import (
	"strings"
)

// WrapperKind names the schema type of a wrapped simple property.
type WrapperKind string

const (
	ObjectString    WrapperKind = "EntityObjectStringType"
	ObjectInt       WrapperKind = "EntityObjectIntType"
	ObjectAnySimple WrapperKind = "EntityObjectAnySimpleType"
	ObjectIPAddress WrapperKind = "EntityObjectIPAddressType"

	StateString            WrapperKind = "EntityStateStringType"
	StateInt               WrapperKind = "EntityStateIntType"
	StateBool              WrapperKind = "EntityStateBoolType"
	StateAnySimple         WrapperKind = "EntityStateAnySimpleType"
	StateIPAddress         WrapperKind = "EntityStateIPAddressType"
	StateIPAddressString   WrapperKind = "EntityStateIPAddressStringType"
	StateRecord            WrapperKind = "EntityStateRecordType"
	StateEVRString         WrapperKind = "EntityStateEVRStringType"
	StateRpmVerifyResult   WrapperKind = "EntityStateRpmVerifyResultType"
	StateCapability        WrapperKind = "EntityStateCapabilityType"
	StateEncryptMethod     WrapperKind = "EntityStateEncryptMethodType"
	StateEndpoint          WrapperKind = "EntityStateEndpointType"
	StateEngine            WrapperKind = "EntityStateEngineType"
	StateFamily            WrapperKind = "EntityStateFamilyType"
	StateHashType          WrapperKind = "EntityStateHashTypeType"
	StateProtocol          WrapperKind = "EntityStateProtocolType"
	StateWaitStatus        WrapperKind = "EntityStateWaitStatusType"
	StateWindowsView       WrapperKind = "EntityStateWindowsViewType"
	StateInterface         WrapperKind = "EntityStateInterfaceType"
	StateGconfType         WrapperKind = "EntityStateGconfTypeType"
	StateXinetdTypeStatus  WrapperKind = "EntityStateXinetdTypeStatusType"
	StateRoutingTableFlags WrapperKind = "EntityStateRoutingTableFlagsType"
)

// KindInfo describes what a wrapper kind accepts.
type KindInfo struct {
	Role            BaseKind
	DefaultDatatype Datatype
	// Datatypes lists the permitted datatypes; empty means any.
	Datatypes []Datatype
	// Values lists the permitted values of an enumeration kind; empty means free text.
	Values []string
}

var (
	stringOnly  = []Datatype{DatatypeString}
	addressOnly = []Datatype{DatatypeIPv4Address, DatatypeIPv6Address}
)

var kindInfos = map[WrapperKind]KindInfo{
	ObjectString:    {Role: KindObject, DefaultDatatype: DatatypeString, Datatypes: stringOnly},
	ObjectInt:       {Role: KindObject, DefaultDatatype: DatatypeInt, Datatypes: []Datatype{DatatypeInt}},
	ObjectAnySimple: {Role: KindObject, DefaultDatatype: DatatypeString},
	ObjectIPAddress: {Role: KindObject, DefaultDatatype: DatatypeIPv4Address, Datatypes: addressOnly},

	StateString:          {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly},
	StateInt:             {Role: KindState, DefaultDatatype: DatatypeInt, Datatypes: []Datatype{DatatypeInt}},
	StateBool:            {Role: KindState, DefaultDatatype: DatatypeBoolean, Datatypes: []Datatype{DatatypeBoolean}},
	StateAnySimple:       {Role: KindState, DefaultDatatype: DatatypeString},
	StateIPAddress:       {Role: KindState, DefaultDatatype: DatatypeIPv4Address, Datatypes: addressOnly},
	StateIPAddressString: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: []Datatype{DatatypeIPv4Address, DatatypeIPv6Address, DatatypeString}},
	StateRecord:          {Role: KindState, DefaultDatatype: DatatypeRecord, Datatypes: []Datatype{DatatypeRecord}},
	StateEVRString:       {Role: KindState, DefaultDatatype: DatatypeEVRString, Datatypes: []Datatype{DatatypeEVRString}},
	StateRpmVerifyResult: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{"pass", "fail", "not performed"}},
	StateCapability: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{
			"CAP_CHOWN", "CAP_DAC_OVERRIDE", "CAP_DAC_READ_SEARCH", "CAP_FOWNER", "CAP_FSETID",
			"CAP_KILL", "CAP_SETGID", "CAP_SETUID", "CAP_SETPCAP", "CAP_LINUX_IMMUTABLE",
			"CAP_NET_BIND_SERVICE", "CAP_NET_BROADCAST", "CAP_NET_ADMIN", "CAP_NET_RAW",
			"CAP_IPC_LOCK", "CAP_IPC_OWNER", "CAP_SYS_MODULE", "CAP_SYS_RAWIO", "CAP_SYS_CHROOT",
			"CAP_SYS_PTRACE", "CAP_SYS_PACCT", "CAP_SYS_ADMIN", "CAP_SYS_BOOT", "CAP_SYS_NICE",
			"CAP_SYS_RESOURCE", "CAP_SYS_TIME", "CAP_SYS_TTY_CONFIG", "CAP_MKNOD", "CAP_LEASE",
			"CAP_AUDIT_WRITE", "CAP_AUDIT_CONTROL", "CAP_SETFCAP", "CAP_MAC_OVERRIDE",
			"CAP_MAC_ADMIN", "CAP_SYSLOG", "CAP_WAKE_ALARM", "CAP_BLOCK_SUSPEND",
		}},
	StateEncryptMethod: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{"DES", "BSDi", "MD5", "Blowfish", "Sun MD5", "SHA-256", "SHA-512"}},
	StateEndpoint: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{"stream", "dgram", "raw", "seqpacket", "tli", "sunrpc_tcp", "sunrpc_udp"}},
	StateEngine: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{
			"access", "db2", "cache", "firebird", "firstsql", "foxpro", "informix", "ingres",
			"interbase", "lightbase", "maxdb", "monetdb", "mimer", "mysql", "oracle", "paradox",
			"pervasive", "postgre", "sqlbase", "sqlite", "sqlserver", "sybase",
		}},
	StateFamily: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{
			"android", "apple_ios", "asa", "catos", "ios", "iosxe", "junos", "macos", "pixos",
			"undefined", "unix", "vmware_infrastructure", "windows",
		}},
	StateHashType: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{"MD5", "SHA-1", "SHA-224", "SHA-256", "SHA-384", "SHA-512"}},
	// Protocol also backs release on states, so its values are not enumerated.
	StateProtocol:   {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly},
	StateWaitStatus: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly, Values: []string{"wait", "nowait"}},
	StateWindowsView: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{"32_bit", "64_bit"}},
	StateInterface: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{
			"ARPHRD_ETHER", "ARPHRD_FDDI", "ARPHRD_IEEE802", "ARPHRD_LOOPBACK", "ARPHRD_NETROM",
			"ARPHRD_PPP", "ARPHRD_SLIP", "ARPHRD_PRONET", "ARPHRD_VOID",
		}},
	StateGconfType: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{
			"GCONF_VALUE_STRING", "GCONF_VALUE_INT", "GCONF_VALUE_FLOAT", "GCONF_VALUE_BOOL",
			"GCONF_VALUE_SCHEMA", "GCONF_VALUE_LIST", "GCONF_VALUE_PAIR",
		}},
	StateXinetdTypeStatus: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{"INTERNAL", "RPC", "UNLISTED", "TCPMUX", "TCPMUXPLUS"}},
	StateRoutingTableFlags: {Role: KindState, DefaultDatatype: DatatypeString, Datatypes: stringOnly,
		Values: []string{"UP", "GATEWAY", "HOST", "REINSTATE", "DYNAMIC", "MODIFIED", "ADDRCONF", "CACHE", "REJECT"}},
}

// Info returns the metadata of the kind. Unknown kinds behave like a string.
func (k WrapperKind) Info() KindInfo {
	if info, ok := kindInfos[k]; ok {
		return info
	}
	return KindInfo{DefaultDatatype: DatatypeString}
}

func (k WrapperKind) Known() bool {
	_, ok := kindInfos[k]
	return ok
}

// WrapperKinds returns every known kind.
func WrapperKinds() []WrapperKind {
	out := make([]WrapperKind, 0, len(kindInfos))
	for k := range kindInfos {
		out = append(out, k)
	}
	return out
}

// Property is a wrapped simple property of an object or state.
type Property struct {
	Name      string      `json:"name"`
	Kind      WrapperKind `json:"kind"`
	Value     string      `json:"value"`
	Datatype  Datatype    `json:"datatype,omitempty"`
	Operation Operation   `json:"operation,omitempty"`
	Mask      *bool       `json:"mask,omitempty"`
	VarRef    string      `json:"var_ref,omitempty"`
}

// EffectiveDatatype is the explicit datatype or the kind's default.
func (p *Property) EffectiveDatatype() Datatype {
	if p.Datatype != "" {
		return p.Datatype
	}
	return p.Kind.Info().DefaultDatatype
}

func (p *Property) EffectiveOperation() Operation {
	if p.Operation != "" {
		return p.Operation
	}
	return OpEquals
}

// ElementName drops the trailing underscore used to tell elements such as
// version_ apart from entity attributes of the same name.
func ElementName(name string) string {
	return strings.TrimSuffix(name, "_")
}

// PropertySet keeps wrapped properties ordered by the variant's schema sequence.
type PropertySet struct {
	items []*Property
}

func (s *PropertySet) Get(name string) *Property {
	for _, p := range s.items {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Put replaces the property with the same name or inserts it before the
// first property that ranks after it.
func (s *PropertySet) Put(p *Property, rank func(string) int) {
	for i, existing := range s.items {
		if existing.Name == p.Name {
			s.items[i] = p
			return
		}
	}
	pos := len(s.items)
	if rank != nil {
		r := rank(p.Name)
		for i, existing := range s.items {
			if rank(existing.Name) > r {
				pos = i
				break
			}
		}
	}
	s.items = append(s.items, nil)
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = p
}

func (s *PropertySet) Remove(name string) bool {
	for i, p := range s.items {
		if p.Name == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *PropertySet) All() []*Property {
	out := make([]*Property, len(s.items))
	copy(out, s.items)
	return out
}

func (s *PropertySet) Len() int {
	return len(s.items)
}
