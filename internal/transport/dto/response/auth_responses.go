package response

import "github.com/niklvrr/codereviewbot/internal/domain"

type AccountResponse struct {
	Id              string `json:"id"`
	ChatUserId      string `json:"chat_user_id"`
	Username        string `json:"username,omitempty"`
	GithubConnected bool   `json:"github_connected"`
}

type IdentityResponse struct {
	Id         string `json:"id"`
	ExternalId int64  `json:"external_id"`
	Login      string `json:"login"`
	AvatarUrl  string `json:"avatar_url,omitempty"`
}

func NewAccountResponse(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Id:              a.Id.String(),
		ChatUserId:      a.ChatUserId,
		Username:        a.Username,
		GithubConnected: a.HasCodeHostToken(),
	}
}

func NewIdentityResponse(i *domain.Identity) *IdentityResponse {
	return &IdentityResponse{
		Id:         i.Id.String(),
		ExternalId: i.ExternalId,
		Login:      i.Login,
		AvatarUrl:  i.AvatarUrl,
	}
}
