package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PrState string

const (
	PrStateOpen     PrState = "open"
	PrStateApproved PrState = "approved"
	PrStateClosed   PrState = "closed"
)

type ReviewState string

const (
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateCommented        ReviewState = "commented"
)

// ParseReviewState принимает написание из вебхука (строчное) и из REST (заглавное)
func ParseReviewState(s string) (ReviewState, bool) {
	switch ReviewState(strings.ToLower(s)) {
	case ReviewStateChangesRequested:
		return ReviewStateChangesRequested, true
	case ReviewStateApproved:
		return ReviewStateApproved, true
	case ReviewStateCommented:
		return ReviewStateCommented, true
	}
	return "", false
}

type Pr struct {
	Id               uuid.UUID
	ExternalId       string
	State            PrState
	ChannelId        string
	MessageTs        string
	DisplayText      string
	AuthorIdentityId uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Pr) MessageRef() MessageRef {
	return MessageRef{Channel: p.ChannelId, Ts: p.MessageTs}
}

type Review struct {
	Id                 uuid.UUID
	PrId               uuid.UUID
	ReviewerIdentityId uuid.UUID
	State              ReviewState
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Identity - пользователь GitHub
type Identity struct {
	Id         uuid.UUID
	ExternalId int64
	Login      string
	AvatarUrl  string
	AccountId  *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Account - локальный пользователь рабочего пространства Slack
type Account struct {
	Id                  uuid.UUID
	ChatUserId          string
	ChatAccessToken     string
	CodeHostAccessToken *string
	Username            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (a *Account) HasCodeHostToken() bool {
	return a != nil && a.CodeHostAccessToken != nil && *a.CodeHostAccessToken != ""
}

type Webhook struct {
	Id        uuid.UUID
	HookId    string
	Owner     string
	Name      string
	CreatedAt time.Time
}
