package request

import "net/http"

type SlackAuthRequest struct {
	Code string
}

type GithubAuthRequest struct {
	Code   string
	UserId string
}

func NewSlackAuthRequest(r *http.Request) *SlackAuthRequest {
	return &SlackAuthRequest{Code: r.URL.Query().Get("code")}
}

func NewGithubAuthRequest(r *http.Request) *GithubAuthRequest {
	q := r.URL.Query()
	return &GithubAuthRequest{
		Code:   q.Get("code"),
		UserId: q.Get("user_id"),
	}
}
