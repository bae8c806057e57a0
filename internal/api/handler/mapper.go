package handler

import (
	"time"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toAdminItems(admins []ports.AdminSummary) []adminItem {
	out := make([]adminItem, 0, len(admins))
	for _, a := range admins {
		out = append(out, adminItem{
			UID:       a.UID,
			Email:     a.Email,
			Type:      string(a.Type),
			ExpiresAt: utcPtr(a.ExpiresAt),
		})
	}
	return out
}

func toUserItems(users []domain.UserRecord) []userItem {
	out := make([]userItem, 0, len(users))
	for _, u := range users {
		item := userItem{
			UID:            u.UID,
			Email:          u.Email,
			Banned:         u.Banned,
			IsAdmin:        u.IsAdmin,
			AdminExpiresAt: utcPtr(u.AdminExpiresAt),
		}
		if !u.CreatedAt.IsZero() {
			item.CreatedAt = utcPtr(&u.CreatedAt)
		}
		out = append(out, item)
	}
	return out
}
