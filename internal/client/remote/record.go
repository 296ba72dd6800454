package remote

import (
	"encoding/json"
	"time"
)

// Field keys of the remote record. The record is a bag of named field
// groups; a save only touches the keys it carries and the merge in
// SaveRecord preserves the rest.
const (
	FieldMembers      = "members"
	FieldActiveMember = "activeMemberId"
	FieldDatasets     = "memberDatasets"
	FieldDictionaries = "sharedDictionaries"
	FieldDeviceID     = "deviceId"
	FieldLastUpdated  = "lastUpdatedAt"
	FieldLastActiveAt = "lastActiveAt"
)

// Fields is the payload of a record: field group name to raw JSON value.
// Values stay opaque to the sync layer.
type Fields map[string]json.RawMessage

// Record is the authoritative server-side document for an account. The
// invariant is at most one record per account; stray extras are collapsed
// by SaveRecord.
type Record struct {
	ID        string    `json:"recordId"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Fields    Fields    `json:"fields"`
}

// Account is the authenticated identity returned by signup and login.
type Account struct {
	ID           string `json:"accountId"`
	Username     string `json:"username"`
	SessionToken string `json:"sessionToken"`
}

// Clone returns an independent copy of the fields map.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// SortTime orders records for dedup: updatedAt descending, falling back to
// createdAt when updatedAt is unset.
func (r *Record) SortTime() time.Time {
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt
	}
	return r.CreatedAt
}
