package capability

import (
	"github.com/humanmade/authorship/internal/domains/user"
)

// roleCaps maps each role to its primitive capabilities. The capability
// names follow the per-type groups from the post type registry, so custom
// types registered with the "post" capability type are covered by the
// post grants here.
var roleCaps = map[user.Role]map[string]bool{
	user.RoleAdministrator: buildCaps(
		allTypeCaps("post"),
		allTypeCaps("page"),
		[]string{"read", "create_users", "edit_users", "list_users"},
	),
	user.RoleEditor: buildCaps(
		allTypeCaps("post"),
		allTypeCaps("page"),
		[]string{"read"},
	),
	user.RoleAuthor: buildCaps(
		[]string{
			"edit_posts",
			"edit_published_posts",
			"publish_posts",
			"delete_posts",
			"delete_published_posts",
			"read",
		},
	),
	user.RoleContributor: buildCaps(
		[]string{
			"edit_posts",
			"delete_posts",
			"read",
		},
	),
	user.RoleSubscriber: buildCaps(
		[]string{"read"},
	),

	// Guest authors exist only to be attributed. They hold no
	// capabilities and cannot log in.
	user.RoleGuestAuthor: {},
}

func allTypeCaps(capType string) []string {
	plural := capType + "s"
	return []string{
		"edit_" + plural,
		"edit_others_" + plural,
		"edit_published_" + plural,
		"edit_private_" + plural,
		"delete_" + plural,
		"delete_others_" + plural,
		"delete_published_" + plural,
		"delete_private_" + plural,
		"publish_" + plural,
		"read_private_" + plural,
	}
}

func buildCaps(groups ...[]string) map[string]bool {
	caps := make(map[string]bool)
	for _, group := range groups {
		for _, cap := range group {
			caps[cap] = true
		}
	}
	return caps
}

// RoleHasCap reports whether a role grants a primitive capability.
func RoleHasCap(role user.Role, capability string) bool {
	caps, ok := roleCaps[role]
	if !ok {
		return false
	}
	return caps[capability]
}
