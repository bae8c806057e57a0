package domain

import "time"

// AdminType classifies an admin grant.
type AdminType string

const (
	AdminPermanent AdminType = "permanent"
	AdminTemporary AdminType = "temporary"
)

// UserRecord is the persisted state of a single user identity.
type UserRecord struct {
	UID            string     `json:"uid" bson:"_id" firestore:"-"`
	Email          string     `json:"email,omitempty" bson:"email,omitempty" firestore:"email,omitempty"`
	Banned         bool       `json:"banned" bson:"banned" firestore:"banned"`
	IsAdmin        bool       `json:"isAdmin" bson:"isAdmin" firestore:"isAdmin"`
	AdminExpiresAt *time.Time `json:"adminExpiresAt" bson:"adminExpiresAt" firestore:"adminExpiresAt"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
}

// AdminType derives the grant type of an admin record. A nil expiry is a
// permanent grant; any expiry, past or future, is temporary.
func (u UserRecord) AdminType() AdminType {
	if u.AdminExpiresAt == nil {
		return AdminPermanent
	}
	return AdminTemporary
}

// ExpiredAt reports whether a temporary grant has lapsed at now. The
// comparison is inclusive: an expiry equal to now counts as expired.
func (u UserRecord) ExpiredAt(now time.Time) bool {
	return u.IsAdmin && u.AdminExpiresAt != nil && !u.AdminExpiresAt.After(now)
}

// AdminState is the admin flag together with its expiry. The two are always
// written as one unit so a non-admin never carries an expiry.
type AdminState struct {
	IsAdmin   bool
	ExpiresAt *time.Time
}

// PermanentAdmin returns the state of a permanent grant.
func PermanentAdmin() *AdminState {
	return &AdminState{IsAdmin: true}
}

// TemporaryAdmin returns the state of a grant lapsing at expiresAt. The
// expiry is kept at millisecond precision, the finest every store preserves.
func TemporaryAdmin(expiresAt time.Time) *AdminState {
	t := expiresAt.UTC().Truncate(time.Millisecond)
	return &AdminState{IsAdmin: true, ExpiresAt: &t}
}

// NoAdmin returns the state of a demoted or never-promoted user.
func NoAdmin() *AdminState {
	return &AdminState{}
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Email  *string
	Banned *bool
	Admin  *AdminState
}

// NewUserRecord returns a record with default flags, as created on first sight.
func NewUserRecord(uid, email string, now time.Time) *UserRecord {
	return &UserRecord{UID: uid, Email: email, CreatedAt: now.UTC()}
}

// Apply merges p into u in place.
func (u *UserRecord) Apply(p UserPatch) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Banned != nil {
		u.Banned = *p.Banned
	}
	if p.Admin != nil {
		u.IsAdmin = p.Admin.IsAdmin
		u.AdminExpiresAt = nil
		if p.Admin.IsAdmin && p.Admin.ExpiresAt != nil {
			t := *p.Admin.ExpiresAt
			u.AdminExpiresAt = &t
		}
	}
}

// AdminAccount is an operator login for the admin panel.
type AdminAccount struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	UID          string    `json:"uid"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleAdmin is the role claim carried by operator tokens.
const RoleAdmin = "admin"
