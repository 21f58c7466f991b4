package v1

import (
	ez_uuid "github.com/prospera-financas/backend/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIContribution struct {
	URIID
	ContributionID ez_uuid.UUID `uri:"cid" binding:"required" format:"UUID"` // ID of the contribution
}
