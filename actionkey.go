package dashcore

import "github.com/xraph/dashcore/share"

// Action keys are the wire format of the external authorization
// provider: flat, boolean-grantable dotted strings. All key
// construction lives here so the typed (Verb, Entity, ScopeMode)
// vocabulary maps to the provider's strings at exactly one boundary.

const actionKeyPrefix = "dashboard-core"

// ScopeActionKey builds the probe key for one (verb, entity, mode)
// combination. With an empty entity the pack-wide default key is built.
func ScopeActionKey(verb Verb, entity Entity, mode ScopeMode) string {
	return scopePrefix(verb, entity) + "." + string(mode)
}

// scopePrefix builds the entity-specific prefix, or the pack-wide
// prefix when entity is empty.
func scopePrefix(verb Verb, entity Entity) string {
	if entity != "" {
		return actionKeyPrefix + "." + string(entity) + "." + string(verb) + ".scope"
	}
	return actionKeyPrefix + "." + string(verb) + ".scope"
}

// ShareActionKey builds the fine-grained grant key for a share-target
// category.
func ShareActionKey(category share.Category) string {
	return actionKeyPrefix + ".dashboards.share." + string(category)
}

// ShareOutsideActionKey gates sharing with principals outside the
// caller's organizational scope.
const ShareOutsideActionKey = actionKeyPrefix + ".dashboards.scope.share_outside"
