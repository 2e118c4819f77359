package response

import (
	"time"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/usecase"
)

type WebhookResponse struct {
	Id        string    `json:"id"`
	HookId    string    `json:"hook_id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type RepoResponse struct {
	Id          int64            `json:"id"`
	Owner       string           `json:"owner"`
	Name        string           `json:"name"`
	FullName    string           `json:"full_name"`
	HtmlUrl     string           `json:"html_url"`
	Description string           `json:"description,omitempty"`
	Private     bool             `json:"private"`
	Webhook     *WebhookResponse `json:"webhook"`
}

type PageLinksResponse struct {
	Next  *string `json:"next,omitempty"`
	Prev  *string `json:"prev,omitempty"`
	First *string `json:"first,omitempty"`
	Last  *string `json:"last,omitempty"`
}

type ReposResponse struct {
	Repos []RepoResponse    `json:"repos"`
	Links PageLinksResponse `json:"links"`
}

func NewWebhookResponse(w *domain.Webhook) *WebhookResponse {
	if w == nil {
		return nil
	}
	return &WebhookResponse{
		Id:        w.Id.String(),
		HookId:    w.HookId,
		Owner:     w.Owner,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
	}
}

func NewReposResponse(list *usecase.RepoList) *ReposResponse {
	resp := &ReposResponse{
		Repos: make([]RepoResponse, 0, len(list.Repos)),
		Links: PageLinksResponse{
			Next:  list.Links.Next,
			Prev:  list.Links.Prev,
			First: list.Links.First,
			Last:  list.Links.Last,
		},
	}
	for _, r := range list.Repos {
		resp.Repos = append(resp.Repos, RepoResponse{
			Id:          r.Repo.Id,
			Owner:       r.Repo.Owner,
			Name:        r.Repo.Name,
			FullName:    r.Repo.FullName,
			HtmlUrl:     r.Repo.HtmlUrl,
			Description: r.Repo.Description,
			Private:     r.Repo.Private,
			Webhook:     NewWebhookResponse(r.Webhook),
		})
	}
	return resp
}
