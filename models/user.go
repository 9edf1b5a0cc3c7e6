package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserType enum
type UserType string

const (
	TypeUser  UserType = "user"
	TypeAdmin UserType = "admin"
)

func (t UserType) Valid() bool {
	return t == TypeUser || t == TypeAdmin
}

// LegacyOwnerID is assigned to issues recorded before issues carried an owner.
const LegacyOwnerID = "legacy"

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Type      UserType  `bson:"type" json:"type"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Type == TypeAdmin
}

// DeriveUserID returns the identifier for an email address. The same email
// always maps to the same id, so a returning reporter keeps their issues.
// Without an email there is nothing to derive from and every login gets a
// fresh identity.
func DeriveUserID(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "user_" + primitive.NewObjectID().Hex()
	}
	sum := sha256.Sum256([]byte(email))
	return "user_" + hex.EncodeToString(sum[:12])
}
