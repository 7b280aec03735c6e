package archive

import (
	"howett.net/plist"
)

// decodeKeyedArchive treats the blob as a keyed, plist-backed archive and
// returns the plain string of the root attributed-string object. Exact when
// applicable; returns "" for anything that is not a keyed archive (notably
// the legacy streamtyped format, which the scanning tiers handle).
func decodeKeyedArchive(blob []byte) string {
	var root map[string]any
	if _, err := plist.Unmarshal(blob, &root); err != nil {
		return ""
	}

	objects, ok := root["$objects"].([]any)
	if !ok {
		return ""
	}
	top, ok := root["$top"].(map[string]any)
	if !ok {
		return ""
	}

	obj := resolveUID(objects, top["root"])
	if obj == nil {
		// Some archives store the attributed string under a bare string key.
		obj = resolveUID(objects, top["NSString"])
	}

	return stringValue(objects, obj, 0)
}

// stringValue walks an archived object graph down to its string content.
// Attributed strings archive as a dict whose "NSString" (or "NS.string")
// entry references the backing string, possibly through a mutable-string
// wrapper. Depth is bounded to keep malformed archives from recursing.
func stringValue(objects []any, obj any, depth int) string {
	if depth > 4 {
		return ""
	}
	switch v := obj.(type) {
	case string:
		if v == "$null" {
			return ""
		}
		return v
	case map[string]any:
		for _, key := range []string{"NSString", "NS.string"} {
			child, ok := v[key]
			if !ok {
				continue
			}
			if s := stringValue(objects, resolveOrSelf(objects, child), depth+1); s != "" {
				return s
			}
		}
	}
	return ""
}

func resolveUID(objects []any, v any) any {
	uid, ok := v.(plist.UID)
	if !ok {
		return nil
	}
	if int(uid) >= len(objects) {
		return nil
	}
	return objects[uid]
}

// resolveOrSelf follows a UID reference when present; inline values pass
// through unchanged.
func resolveOrSelf(objects []any, v any) any {
	if resolved := resolveUID(objects, v); resolved != nil {
		return resolved
	}
	return v
}
