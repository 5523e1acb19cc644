package schema

import "strings"

// NamingRule maps an entity type name onto the collection that stores it.
// The default transform lowercases the type name; overrides win.
type NamingRule struct {
	overrides map[string]string
}

// DefaultNaming carries the irregular names used by this site.
var DefaultNaming = NewNamingRule(map[string]string{
	"BlogPost": "blogs",
})

func NewNamingRule(overrides map[string]string) NamingRule {
	copied := make(map[string]string, len(overrides))
	for entity, collection := range overrides {
		copied[entity] = collection
	}
	return NamingRule{overrides: copied}
}

func (r NamingRule) Resolve(entity string) string {
	if collection, ok := r.overrides[entity]; ok {
		return collection
	}
	return strings.ToLower(entity)
}
