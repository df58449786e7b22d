package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Key derives a stable cache key from a tool name and its arguments.
// Arguments are serialized with object keys sorted recursively so that
// logically equal argument maps always produce the same key.
func Key(tool string, args map[string]any) string {
	canonical, err := canonicalJSON(args)
	if err != nil {
		// Unserializable arguments never share a key.
		canonical = fmt.Sprintf("unhashable:%p", &args)
	}
	sum := sha256.Sum256([]byte(canonical))
	return tool + ":" + hex.EncodeToString(sum[:])
}

func canonicalJSON(v any) (string, error) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kj, err := json.Marshal(k)
			if err != nil {
				return "", err
			}
			b.Write(kj)
			b.WriteByte(':')
			vj, err := canonicalJSON(t[k])
			if err != nil {
				return "", err
			}
			b.WriteString(vj)
		}
		b.WriteByte('}')
		return b.String(), nil
	case []any:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			vj, err := canonicalJSON(item)
			if err != nil {
				return "", err
			}
			b.WriteString(vj)
		}
		b.WriteByte(']')
		return b.String(), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}
