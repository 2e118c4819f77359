package github

import (
	"fmt"
	"path"
	"strconv"

	gh "github.com/google/go-github/v42/github"
	"github.com/niklvrr/codereviewbot/internal/domain"
)

func ToPrDetails(pr *gh.PullRequest) domain.PrDetails {
	repo := pr.GetBase().GetRepo()

	return domain.PrDetails{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		HtmlUrl:      pr.GetHTMLURL(),
		RepoFullName: repo.GetFullName(),
		Owner:        repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		State:        pr.GetState(),
		Draft:        pr.GetDraft(),
		Merged:       pr.GetMerged(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		Author:       ToUser(pr.GetUser()),
	}
}

func ToUser(u *gh.User) domain.User {
	return domain.User{
		Id:        u.GetID(),
		Login:     u.GetLogin(),
		AvatarUrl: u.GetAvatarURL(),
	}
}

func toRepo(r *gh.Repository) domain.Repo {
	return domain.Repo{
		Id:          r.GetID(),
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		HtmlUrl:     r.GetHTMLURL(),
		Description: r.GetDescription(),
		Private:     r.GetPrivate(),
	}
}

func pathExt(name string) string {
	return path.Ext(path.Base(name))
}

func parseHookId(id string) (int64, error) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: hook id %q", domain.ErrUpstream, id)
	}
	return v, nil
}
