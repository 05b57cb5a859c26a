package models

import (
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/patch"
)

// AddContactRequest carries the fields for registering a contact. Empty
// Relationship or Memo means the field is not provided.
type AddContactRequest struct {
	OwnerUserID  id.UserID
	Name         string
	Relationship string
	Memo         string
	IsPremium    bool
}

// ContactPatch is a partial update. Absent fields keep their value; Clear
// empties Relationship or Memo. Clearing Name fails validation.
type ContactPatch struct {
	Name         patch.Field[string]
	Relationship patch.Field[string]
	Memo         patch.Field[string]
}

// IsEmpty reports a patch that changes nothing.
func (p ContactPatch) IsEmpty() bool {
	return p.Name.IsAbsent() && p.Relationship.IsAbsent() && p.Memo.IsAbsent()
}

// Apply merges the patch over c and returns the result. ID, OwnerUserID and
// RegisteredAt are always carried over.
func (p ContactPatch) Apply(c Contact) Contact {
	c.Name = p.Name.Apply(c.Name)
	c.Relationship = p.Relationship.Apply(c.Relationship)
	c.Memo = p.Memo.Apply(c.Memo)
	return c
}
