package request

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ListReposRequest struct {
	UserId string
	Page   string
}

type CreateWebhookRequest struct {
	UserId string
	Owner  string
	Name   string
}

type DeleteWebhookRequest struct {
	UserId string
	Id     string
}

func NewListReposRequest(r *http.Request) *ListReposRequest {
	q := r.URL.Query()
	return &ListReposRequest{
		UserId: q.Get("user_id"),
		Page:   q.Get("page"),
	}
}

func NewCreateWebhookRequest(r *http.Request) *CreateWebhookRequest {
	return &CreateWebhookRequest{
		UserId: r.FormValue("user_id"),
		Owner:  r.FormValue("owner"),
		Name:   r.FormValue("name"),
	}
}

func NewDeleteWebhookRequest(r *http.Request) *DeleteWebhookRequest {
	return &DeleteWebhookRequest{
		UserId: r.FormValue("user_id"),
		Id:     chi.URLParam(r, "id"),
	}
}
