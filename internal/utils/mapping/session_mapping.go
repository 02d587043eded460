package mapping

import (
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/mkrishnan-dev/storefront_backend/internal/models"
)

func ToModelSession(d domain.Session) models.Session {
	return models.Session{
		SessionID: d.SessionID,
		UserID:    d.UserID,
		Token:     d.Token,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}

func ToDomainSession(m models.Session) domain.Session {
	return domain.Session{
		SessionID: m.SessionID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
