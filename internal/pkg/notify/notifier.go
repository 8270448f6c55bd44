package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"workhive/internal/platform/models"
)

// Notifier delivers onboarding notifications for newly provisioned
// organizations. Delivery failures must never fail or roll back the
// provisioning call that triggered them.
type Notifier interface {
	OrganizationProvisioned(ctx context.Context, org *models.Organization, owner *models.User)
}

// LogNotifier is the default implementation; actual email delivery is an
// external concern.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) OrganizationProvisioned(ctx context.Context, org *models.Organization, owner *models.User) {
	log.Info().
		Str("org_id", org.ID).
		Str("subdomain", org.Subdomain).
		Str("owner_email", owner.Email).
		Msg("onboarding notification queued")
}
