package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v42/github"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/pkg/pagination"
	"go.uber.org/zap"
)

const reposPerPage = 30

// ListRepositories возвращает репозитории владельца токена.
// page - строка запроса из ссылок пагинации, например "?page=2"
func (c *Client) ListRepositories(ctx context.Context, token, page string) (*domain.RepoPage, error) {
	opts := &gh.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: reposPerPage},
	}

	n, err := pageNumber(page)
	if err != nil {
		return nil, err
	}
	opts.Page = n

	repos, resp, err := c.client(ctx, token).Repositories.List(ctx, "", opts)
	if err != nil {
		c.log.Warn("list repositories failed", zap.Error(err))
		return nil, mapError(resp, err)
	}

	links, err := pagination.Resolve(resp.Header.Values("Link"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	result := &domain.RepoPage{
		Repos: make([]domain.Repo, 0, len(repos)),
		Links: domain.PageLinks{
			Next:  links.Next,
			Prev:  links.Prev,
			First: links.First,
			Last:  links.Last,
		},
	}
	for _, r := range repos {
		result.Repos = append(result.Repos, toRepo(r))
	}

	return result, nil
}

func pageNumber(page string) (int, error) {
	page = strings.TrimPrefix(strings.TrimSpace(page), "?")
	if page == "" {
		return 0, nil
	}

	values, err := url.ParseQuery(page)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformedUrl, err)
	}

	raw := values.Get("page")
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: page %q", domain.ErrMalformedUrl, raw)
	}
	return n, nil
}
