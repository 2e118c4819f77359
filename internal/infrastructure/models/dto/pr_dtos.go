package dto

import (
	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
)

type CreatePrDTO struct {
	ExternalId       string
	State            domain.PrState
	ChannelId        string
	MessageTs        string
	DisplayText      string
	AuthorIdentityId uuid.UUID
}

// TransitionPrDTO переводит pull request в State.
// Если задан From, запись обновляется только пока она в состоянии From
type TransitionPrDTO struct {
	ExternalId string
	From       domain.PrState
	State      domain.PrState
}

type UpsertReviewDTO struct {
	PrId               uuid.UUID
	ReviewerIdentityId uuid.UUID
	State              domain.ReviewState
}
