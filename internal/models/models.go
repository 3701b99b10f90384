package models

import (
	"time"
)

// CredentialScheme tags how a stored password is encoded.
type CredentialScheme string

const (
	// SchemeBcrypt is a salted bcrypt hash.
	SchemeBcrypt CredentialScheme = "bcrypt"
	// SchemePlain is a legacy plain-text password kept only for old rows.
	SchemePlain CredentialScheme = "plain"
)

// Credential is the stored half of a username/password pair.
type Credential struct {
	Scheme CredentialScheme
	Value  string
}

// ClassifyCredential tags a raw stored value by its bcrypt prefix.
// Only used when importing rows that carry no scheme of their own.
func ClassifyCredential(raw string) Credential {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if len(raw) >= len(prefix) && raw[:len(prefix)] == prefix {
			return Credential{Scheme: SchemeBcrypt, Value: raw}
		}
	}
	return Credential{Scheme: SchemePlain, Value: raw}
}

type User struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Credential Credential `json:"-"`
	IsAdmin    bool       `json:"isAdmin"`
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`   // Persian display name
	NameEn string `json:"nameEn"` // English display name
	Image  string `json:"image"`
}

// CategoryPatch carries the fields of a partial update; nil means unchanged.
type CategoryPatch struct {
	Name   *string `json:"name"`
	NameEn *string `json:"nameEn"`
	Image  *string `json:"image"`
}

func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.NameEn == nil && p.Image == nil
}

type Product struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	NameEn         *string `json:"nameEn"`
	Description    string  `json:"description"`
	Image          string  `json:"image"`
	CategoryID     int64   `json:"categoryId"` // not enforced against categories
	Featured       bool    `json:"featured"`
	Specifications *string `json:"specifications"` // "،"-separated list
	Price          int64   `json:"price"`          // minor currency unit
}

type ProductPatch struct {
	Name           *string `json:"name"`
	NameEn         *string `json:"nameEn"`
	Description    *string `json:"description"`
	Image          *string `json:"image"`
	CategoryID     *int64  `json:"categoryId"`
	Featured       *bool   `json:"featured"`
	Specifications *string `json:"specifications"`
	Price          *int64  `json:"price"`
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.NameEn == nil && p.Description == nil && p.Image == nil &&
		p.CategoryID == nil && p.Featured == nil && p.Specifications == nil && p.Price == nil
}

// ProductFilter selects one listing mode. CategoryID and FeaturedOnly are
// not combined; CategoryID wins when both are set.
type ProductFilter struct {
	CategoryID   int64
	FeaturedOnly bool
}

type GalleryImage struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
	Alt   string `json:"alt"`
}

type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a server-side login record. Only SessionID leaves the server.
type Session struct {
	SessionID string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
