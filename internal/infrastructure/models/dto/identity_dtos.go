package dto

import "github.com/google/uuid"

type IdentityDTO struct {
	ExternalId int64
	Login      string
	AvatarUrl  string
}

type UpsertAccountDTO struct {
	ChatUserId      string
	ChatAccessToken string
	Username        string
}

type SetCodeHostTokenDTO struct {
	AccountId uuid.UUID
	Token     string
}
