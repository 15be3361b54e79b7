package domain

import "time"

// ID is used across domain entities.
type ID = int64

// AdminSecurityLevel is the lowest security level allowed to act on other users' data.
const AdminSecurityLevel = 1

// Identity is the verified caller of a request.
type Identity struct {
	UserID        ID  `json:"userId"`
	SecurityLevel int `json:"securityLevel"`
}

// IsAdmin reports whether the identity may see every user's data.
func (i Identity) IsAdmin() bool {
	return i.SecurityLevel >= AdminSecurityLevel
}

// CanAccess reports whether the identity may read resources owned by ownerID.
func (i Identity) CanAccess(ownerID ID) bool {
	return i.UserID == ownerID || i.IsAdmin()
}

// Clock returns the current server time.
type Clock func() time.Time
