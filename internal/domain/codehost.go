package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrUpstream         = errors.New("upstream error")
	ErrUpstreamNotFound = errors.New("upstream resource not found")
	ErrRateLimited      = errors.New("upstream rate limit exceeded")
	ErrChatSoftFailure  = errors.New("chat platform reported failure")
	ErrMalformedUrl     = errors.New("malformed url")
)

type User struct {
	Id        int64
	Login     string
	AvatarUrl string
}

type PrRef struct {
	Owner  string
	Name   string
	Number int
}

func (r PrRef) ExternalId() string {
	return fmt.Sprintf("%s/%s-%d", r.Owner, r.Name, r.Number)
}

// ParsePrRef достает владельца, репозиторий и номер из url pull request
// вида http://github.com/facebook/react/pulls/1234
func ParsePrRef(raw string) (PrRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PrRef{}, fmt.Errorf("%w: %v", ErrMalformedUrl, err)
	}
	if u.Host == "" {
		return PrRef{}, fmt.Errorf("%w: %q has no host", ErrMalformedUrl, raw)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 4 || segments[0] == "" || segments[1] == "" {
		return PrRef{}, fmt.Errorf("%w: %q is not a pull request url", ErrMalformedUrl, raw)
	}

	number, err := strconv.Atoi(segments[3])
	if err != nil || number <= 0 {
		return PrRef{}, fmt.Errorf("%w: %q has no pull request number", ErrMalformedUrl, raw)
	}

	return PrRef{Owner: segments[0], Name: segments[1], Number: number}, nil
}

type PrDetails struct {
	Number       int
	Title        string
	HtmlUrl      string
	RepoFullName string
	Owner        string
	RepoName     string
	State        string
	Draft        bool
	Merged       bool
	Additions    int
	Deletions    int
	Author       User
}

func (d *PrDetails) Ref() PrRef {
	return PrRef{Owner: d.Owner, Name: d.RepoName, Number: d.Number}
}

// ExternalId - ключ pull request в хранилище: {repo_full_name}-{number}
func (d *PrDetails) ExternalId() string {
	return fmt.Sprintf("%s-%d", d.RepoFullName, d.Number)
}

func (d *PrDetails) DisplayText() string {
	return fmt.Sprintf("(+%d -%d) %s by %s", d.Additions, d.Deletions, d.HtmlUrl, d.Author.Login)
}

type FileChange struct {
	Filename  string
	Extension string
}

type RepoRef struct {
	Owner string
	Name  string
}

type Repo struct {
	Id          int64
	Owner       string
	Name        string
	FullName    string
	HtmlUrl     string
	Description string
	Private     bool
}

type WebhookHandle struct {
	Id  int64
	Url string
}

// PageLinks хранит относительные строки запроса вида "?page=2"
type PageLinks struct {
	Next  *string
	Prev  *string
	First *string
	Last  *string
}

type RepoPage struct {
	Repos []Repo
	Links PageLinks
}
