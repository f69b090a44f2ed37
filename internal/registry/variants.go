package registry

import "oval-editor/internal/models"

// platformType describes one schema type and the test/object/state variants
// derived from it. Property lists are space separated and in schema order.
type platformType struct {
	name       string
	family     models.Family
	object     string
	state      string
	behaviors  bool
	deprecated bool
	// testOnly types have no object or state; noState types have no state.
	testOnly bool
	noState  bool
}

const (
	fileLocation      = "filepath path filename"
	rpmVerifyResults  = "size_differs mode_differs md5_differs device_differs link_mismatch ownership_differs group_differs mtime_differs capabilities_differ"
	rpmFileAttributes = "configuration_file documentation_file ghost_file license_file readme_file"
	filePermissions   = "uread uwrite uexec gread gwrite gexec oread owrite oexec"
)

var platformTypes = []platformType{
	// independent
	{name: "family", family: models.FamilyIndependent, state: "family", deprecated: true},
	{name: "filehash", family: models.FamilyIndependent, object: fileLocation,
		state: fileLocation + " md5 sha1", deprecated: true},
	{name: "filehash58", family: models.FamilyIndependent, object: fileLocation + " hash_type", behaviors: true,
		state: fileLocation + " hash_type hash windows_view"},
	{name: "environmentvariable", family: models.FamilyIndependent, object: "name", state: "name value", deprecated: true},
	{name: "environmentvariable58", family: models.FamilyIndependent, object: "pid name", state: "pid name value"},
	{name: "ldap", family: models.FamilyIndependent, object: "suffix relative_dn attribute",
		state: "suffix relative_dn attribute object_class ldaptype value", deprecated: true},
	{name: "ldap57", family: models.FamilyIndependent, object: "suffix relative_dn attribute",
		state: "suffix relative_dn attribute object_class ldaptype value", deprecated: true},
	{name: "sql", family: models.FamilyIndependent, object: "engine version_ connection_string sql",
		state: "engine version_ connection_string sql result", deprecated: true},
	{name: "sql57", family: models.FamilyIndependent, object: "engine version_ connection_string sql",
		state: "engine version_ connection_string sql result"},
	{name: "textfilecontent", family: models.FamilyIndependent, object: "path filename line",
		state: "path filename line subexpression", deprecated: true},
	{name: "textfilecontent54", family: models.FamilyIndependent, object: fileLocation + " pattern instance", behaviors: true,
		state: fileLocation + " pattern instance text subexpression windows_view"},
	{name: "unknown", family: models.FamilyIndependent, testOnly: true},
	{name: "variable", family: models.FamilyIndependent, object: "var_ref", state: "var_ref value"},
	{name: "xmlfilecontent", family: models.FamilyIndependent, object: fileLocation + " xpath", behaviors: true,
		state: fileLocation + " xpath value_of windows_view"},

	// linux
	{name: "apparmorstatus", family: models.FamilyLinux,
		state: "loaded_profiles_count enforce_mode_profiles_count complain_mode_profiles_count processes_with_profiles_count enforce_mode_processes_count complain_mode_processes_count unconfined_processes_with_profiles_count",
		deprecated: true},
	{name: "dpkginfo", family: models.FamilyLinux, object: "name",
		state: "name arch epoch release version_ evr"},
	{name: "iflisteners", family: models.FamilyLinux, object: "interface_name",
		state: "interface_name protocol hw_address program_name pid user_id"},
	{name: "inetlisteningservers", family: models.FamilyLinux, object: "protocol local_address local_port",
		state: "protocol local_address local_port local_full_address program_name remote_address remote_port remote_full_address pid user_id"},
	{name: "partition", family: models.FamilyLinux, object: "mount_point",
		state: "mount_point device uuid fs_type mount_options total_space space_used space_left"},
	{name: "rpminfo", family: models.FamilyLinux, object: "name", behaviors: true,
		state: "name arch epoch release version_ evr signature_keyid extended_name filepath"},
	{name: "rpmverify", family: models.FamilyLinux, object: "name filepath", behaviors: true,
		state: "name filepath " + rpmVerifyResults + " " + rpmFileAttributes},
	{name: "rpmverifyfile", family: models.FamilyLinux, object: "name epoch version_ release arch filepath", behaviors: true,
		state: "name epoch version_ release arch filepath extended_name " + rpmVerifyResults + " " + rpmFileAttributes},
	{name: "rpmverifypackage", family: models.FamilyLinux, object: "name epoch version_ release arch", behaviors: true,
		state: "name epoch version_ release arch extended_name dependency_check_passed digest_check_passed verification_script_successful signature_check_passed"},
	{name: "selinuxboolean", family: models.FamilyLinux, object: "name",
		state: "name current_status pending_status"},
	{name: "selinuxsecuritycontext", family: models.FamilyLinux, object: fileLocation + " pid", behaviors: true,
		state: fileLocation + " pid user role type low_sensitivity low_category high_sensitivity high_category rawlow_sensitivity rawlow_category rawhigh_sensitivity rawhigh_category"},
	{name: "slackwarepkginfo", family: models.FamilyLinux, object: "name",
		state: "name version_ architecture revision"},
	{name: "systemdunitdependency", family: models.FamilyLinux, object: "unit", state: "unit dependency"},
	{name: "systemdunitproperty", family: models.FamilyLinux, object: "unit property", state: "unit property value"},

	// unix
	{name: "dnscache", family: models.FamilyUnix, object: "domain_name", state: "domain_name ttl ip_address"},
	{name: "file", family: models.FamilyUnix, object: "path filename filepath", behaviors: true,
		state: fileLocation + " type group_id user_id a_time c_time m_time size suid sgid sticky " + filePermissions + " has_extended_acl"},
	{name: "fileextendedattribute", family: models.FamilyUnix, object: fileLocation + " attribute_name", behaviors: true,
		state: fileLocation + " attribute_name value"},
	{name: "gconf", family: models.FamilyUnix, object: "key source",
		state: "key source type is_writable mod_user mod_time is_default value"},
	{name: "inetd", family: models.FamilyUnix, object: "protocol service_name",
		state: "protocol service_name server_program server_arguments endpoint_type exec_as_user wait_status"},
	{name: "interface", family: models.FamilyUnix, object: "name",
		state: "name type hardware_addr inet_addr broadcast_addr netmask flag"},
	{name: "password", family: models.FamilyUnix, object: "username",
		state: "username password user_id group_id gcos home_dir login_shell last_login"},
	{name: "process", family: models.FamilyUnix, object: "command",
		state: "command exec_time pid ppid priority ruid scheduling_class start_time tty user_id", deprecated: true},
	{name: "process58", family: models.FamilyUnix, object: "command_line pid",
		state: "command_line exec_time pid ppid priority ruid scheduling_class start_time tty user_id exec_shield loginuid posix_capability selinux_domain_label session_id"},
	{name: "routingtable", family: models.FamilyUnix, object: "destination",
		state: "destination gateway flags interface_name"},
	{name: "runlevel", family: models.FamilyUnix, object: "service_name runlevel",
		state: "service_name runlevel start kill"},
	{name: "sccs", family: models.FamilyUnix, object: fileLocation, behaviors: true,
		state: fileLocation + " module_name module_type release user_id", deprecated: true},
	{name: "shadow", family: models.FamilyUnix, object: "username",
		state: "username password chg_lst chg_allow chg_req exp_warn exp_inact exp_date flag encrypt_method"},
	{name: "symlink", family: models.FamilyUnix, object: "filepath", state: "filepath canonical_path"},
	{name: "sysctl", family: models.FamilyUnix, object: "name", state: "name value"},
	{name: "uname", family: models.FamilyUnix,
		state: "machine_class node_name os_name os_release os_version processor_type"},
	{name: "xinetd", family: models.FamilyUnix, object: "protocol service_name",
		state: "protocol service_name flags no_access only_from port server server_arguments socket_type type user wait disabled"},

	// solaris
	{name: "isainfo", family: models.FamilySolaris, state: "bits kernel_isa application_isa"},
	{name: "ndd", family: models.FamilySolaris, object: "device parameter", state: "device instance parameter value"},
	{name: "package", family: models.FamilySolaris, object: "pkginst",
		state: "pkginst name category version_ vendor description"},
	{name: "packagecheck", family: models.FamilySolaris, object: "pkginst filepath", behaviors: true,
		state: "pkginst filepath checksum_differs size_differs mtime_differs " + filePermissions},
	{name: "patch", family: models.FamilySolaris, object: "patch_id", noState: true, deprecated: true},
	{name: "patch54", family: models.FamilySolaris, object: "base patch_number", state: "base patch_number"},
	{name: "smf", family: models.FamilySolaris, object: "fmri",
		state: "fmri service_name service_state protocol server_executable server_arguements exec_as_user"},
	{name: "smfproperty", family: models.FamilySolaris, object: "service property", state: "service property value"},
	{name: "variant", family: models.FamilySolaris, object: "name", state: "name value"},
	{name: "facet", family: models.FamilySolaris, object: "name", state: "name value"},
}

// Core variables have no simple properties; their sub-kind carries the shape.
var coreVariables = []string{"constant_variable", "external_variable", "local_variable"}

// defaultDatatypes is keyed by element name; unlisted properties default to string.
var defaultDatatypes = map[string]models.Datatype{
	"a_time": models.DatatypeInt, "chg_allow": models.DatatypeInt, "chg_lst": models.DatatypeInt,
	"chg_req": models.DatatypeInt, "c_time": models.DatatypeInt, "exp_date": models.DatatypeInt,
	"exp_inact": models.DatatypeInt, "exp_warn": models.DatatypeInt, "group_id": models.DatatypeInt,
	"instance": models.DatatypeInt, "last_login": models.DatatypeInt, "local_port": models.DatatypeInt,
	"loginuid": models.DatatypeInt, "mod_time": models.DatatypeInt, "m_time": models.DatatypeInt,
	"pid": models.DatatypeInt, "port": models.DatatypeInt, "ppid": models.DatatypeInt,
	"priority": models.DatatypeInt, "ruid": models.DatatypeInt, "session_id": models.DatatypeInt,
	"size": models.DatatypeInt, "space_left": models.DatatypeInt, "space_used": models.DatatypeInt,
	"total_space": models.DatatypeInt, "ttl": models.DatatypeInt, "user_id": models.DatatypeInt,

	"version": models.DatatypeVersion,

	"configuration_file": models.DatatypeBoolean, "current_status": models.DatatypeBoolean,
	"dependency_check_passed": models.DatatypeBoolean, "digest_check_passed": models.DatatypeBoolean,
	"disabled": models.DatatypeBoolean, "documentation_file": models.DatatypeBoolean,
	"exec_shield": models.DatatypeBoolean, "gexec": models.DatatypeBoolean, "ghost_file": models.DatatypeBoolean,
	"gread": models.DatatypeBoolean, "gwrite": models.DatatypeBoolean, "has_extended_acl": models.DatatypeBoolean,
	"is_default": models.DatatypeBoolean, "is_writable": models.DatatypeBoolean, "kill": models.DatatypeBoolean,
	"license_file": models.DatatypeBoolean, "oexec": models.DatatypeBoolean, "oread": models.DatatypeBoolean,
	"owrite": models.DatatypeBoolean, "pending_status": models.DatatypeBoolean, "readme_file": models.DatatypeBoolean,
	"sgid": models.DatatypeBoolean, "signature_check_passed": models.DatatypeBoolean, "start": models.DatatypeBoolean,
	"sticky": models.DatatypeBoolean, "suid": models.DatatypeBoolean, "uexec": models.DatatypeBoolean,
	"uread": models.DatatypeBoolean, "uwrite": models.DatatypeBoolean,
	"verification_script_successful": models.DatatypeBoolean, "wait": models.DatatypeBoolean,
}
