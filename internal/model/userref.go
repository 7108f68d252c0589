package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UserRef points at a user document. Both "users/<id>" and a bare id are
// accepted; ID returns the bare form.
type UserRef string

func (r UserRef) ID() string {
	s := strings.Trim(strings.TrimSpace(string(r)), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// UnmarshalJSON accepts a string or an object carrying "id" or "path".
func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID   string `json:"id"`
			Path string `json:"path"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			*r = ""
			return nil
		}
		if obj.ID != "" {
			*r = UserRef(obj.ID)
		} else {
			*r = UserRef(obj.Path)
		}
		return nil
	}
	*r = UserRef(decodeString(data))
	return nil
}

// RefsFromIDs builds refs from bare ids.
func RefsFromIDs(ids ...string) []UserRef {
	refs := make([]UserRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, UserRef(id))
	}
	return refs
}
