package classify

import (
	"strings"

	"oval-editor/internal/models"
)

func objectRule(property string, w models.WrapperKind, variants ...string) Rule {
	return Rule{Kind: models.KindObject, Property: property, Variants: variants, Wrapper: w}
}

func stateRule(property string, w models.WrapperKind, variants ...string) Rule {
	return Rule{Kind: models.KindState, Property: property, Variants: variants, Wrapper: w}
}

func names(kind models.BaseKind, list string, w models.WrapperKind) []Rule {
	var out []Rule
	for _, p := range strings.Fields(list) {
		out = append(out, Rule{Kind: kind, Property: p, Wrapper: w})
	}
	return out
}

// DefaultRules is the built-in classification. protocol is a plain string on
// states even though it is also a capability name; release on states maps to
// the protocol kind.
func DefaultRules() []Rule {
	rules := []Rule{
		objectRule("version_", models.ObjectString, "sql57_object", "sql_object"),
		objectRule("version_", models.ObjectAnySimple, "rpmverifyfile_object", "rpmverifypackage_object"),

		stateRule("version_", models.StateString, "slackwarepkginfo_state", "sql57_state"),
		stateRule("version_", models.StateAnySimple,
			"rpmverifypackage_state", "rpmverifyfile_state", "rpminfo_state", "dpkginfo_state"),
		stateRule("type", models.StateString, "selinuxsecuritycontext_state", "file_state"),
		stateRule("type", models.StateInterface, "interface_state"),
		stateRule("type", models.StateGconfType, "gconf_state"),
		stateRule("type", models.StateXinetdTypeStatus, "xinetd_state"),
		stateRule("flags", models.StateString, "xinetd_state"),
		stateRule("flags", models.StateRoutingTableFlags, "routingtable_state"),
	}

	rules = append(rules, names(models.KindObject, "instance pid local_port", models.ObjectInt)...)
	rules = append(rules, names(models.KindObject,
		"path filename filepath name connection_string sql xpath pattern domain_name attribute_name key source "+
			"protocol service_name username command_line runlevel interface_name mount_point arch unit property "+
			"hash_type engine",
		models.ObjectString)...)
	rules = append(rules, names(models.KindObject, "epoch release", models.ObjectAnySimple)...)
	rules = append(rules, names(models.KindObject, "local_address destination", models.ObjectIPAddress)...)

	rules = append(rules, names(models.KindState,
		"arch architecture attribute_name canonical_path command_line connection_string dependency device "+
			"domain_name exec_as_user exec_time extended_name filename filepath flag fs_type gcos hardware_addr hash "+
			"high_category high_sensitivity home_dir hw_address interface_name key login_shell low_category "+
			"low_sensitivity machine_class mod_user mount_options mount_point name no_access node_name os_name "+
			"os_release os_version password path pattern processor_type program_name property protocol "+
			"rawhigh_category rawhigh_sensitivity rawlow_category rawlow_sensitivity revision role runlevel "+
			"scheduling_class selinux_domain_label server server_arguments server_program service_name "+
			"signature_keyid socket_type source sql start_time tty unit user username uuid xpath",
		models.StateString)...)
	rules = append(rules, names(models.KindState,
		"a_time chg_allow chg_lst chg_req c_time exp_date exp_inact exp_warn group_id instance last_login "+
			"loginuid mod_time m_time pid port ppid priority ruid session_id size space_left space_used "+
			"total_space ttl user_id",
		models.StateInt)...)
	rules = append(rules, names(models.KindState,
		"configuration_file current_status dependency_check_passed digest_check_passed disabled "+
			"documentation_file exec_shield gexec ghost_file gread gwrite has_extended_acl is_default is_writable "+
			"kill license_file oexec oread owrite pending_status readme_file sgid signature_check_passed start "+
			"sticky suid uexec uread uwrite verification_script_successful wait",
		models.StateBool)...)
	rules = append(rules, names(models.KindState,
		"capabilities_differ device_differs group_differs link_mismatch md5_differs mode_differs mtime_differs "+
			"ownership_differs size_differs",
		models.StateRpmVerifyResult)...)
	rules = append(rules, names(models.KindState, "epoch result subexpression text value value_of", models.StateAnySimple)...)
	rules = append(rules, names(models.KindState, "broadcast_addr inet_addr ip_address netmask only_from", models.StateIPAddressString)...)
	rules = append(rules, names(models.KindState, "destination gateway", models.StateIPAddress)...)

	rules = append(rules,
		stateRule("posix_capability", models.StateCapability),
		stateRule("encrypt_method", models.StateEncryptMethod),
		stateRule("endpoint_type", models.StateEndpoint),
		stateRule("engine", models.StateEngine),
		stateRule("evr", models.StateEVRString),
		stateRule("family", models.StateFamily),
		stateRule("hash_type", models.StateHashType),
		stateRule("release", models.StateProtocol),
		stateRule("var_ref", models.StateRecord),
		stateRule("wait_status", models.StateWaitStatus),
		stateRule("windows_view", models.StateWindowsView),
	)
	return rules
}
