package cupid

import "strings"

// nameAliases are the paths a property payload has carried its name under.
var nameAliases = []string{"name", "hotel_name", "property.name", "translations.name"}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString: first non-empty string among paths.
func firstString(m map[string]any, paths []string) string {
	for _, p := range paths {
		if s, ok := lookupAny(m, p).(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
