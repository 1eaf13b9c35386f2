package mapper

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/fleet-admin/internal/models"
)

// UserFromDoc maps a raw user mirror document onto models.User.
func UserFromDoc(uid string, doc bson.M) (models.User, error) {
	u := models.User{
		UID:         uid,
		Email:       str(doc, "email"),
		DisplayName: str(doc, "display_name"),
		PhotoURL:    str(doc, "photo_url"),
		Role:        models.RoleUser,
		Providers:   strList(doc, "providers"),
	}

	if v, ok := doc["role"].(string); ok {
		u.Role = models.Role(v)
	}
	if v, ok := doc["admin"].(bool); ok {
		u.Admin = v
	}

	var err error
	if u.CreatedAt, err = timestamp(doc, "created_at"); err != nil {
		return models.User{}, fmt.Errorf("user %s created_at: %w", uid, err)
	}
	if u.LastSignIn, err = timestamp(doc, "last_sign_in"); err != nil {
		return models.User{}, fmt.Errorf("user %s last_sign_in: %w", uid, err)
	}
	return u, nil
}

// WaitlistEntryFromDoc maps a raw waitlist document onto models.WaitlistEntry.
func WaitlistEntryFromDoc(id string, doc bson.M) (models.WaitlistEntry, error) {
	e := models.WaitlistEntry{
		ID:    id,
		Email: str(doc, "email"),
	}
	var err error
	if e.CreatedAt, err = timestamp(doc, "created_at"); err != nil {
		return models.WaitlistEntry{}, fmt.Errorf("waitlist %s created_at: %w", id, err)
	}
	return e, nil
}
