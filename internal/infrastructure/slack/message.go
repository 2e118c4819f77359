package slack

import (
	"fmt"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/slack-go/slack"
)

// context блок принимает не больше десяти элементов
const maxContextElements = 10

func stateEmoji(pr *domain.PrDetails) string {
	switch {
	case pr.Merged:
		return ":merged-pull-request:"
	case pr.State == "closed":
		return ":closed-pull-request:"
	default:
		return ":open-pull-request:"
	}
}

func messageBlocks(pr *domain.PrDetails, icons []string) []slack.Block {
	title := pr.Title
	if title == "" {
		title = pr.HtmlUrl
	}

	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(
			slack.MarkdownType,
			fmt.Sprintf("*<%s|%s>*\n%s by %s", pr.HtmlUrl, title, pr.RepoFullName, pr.Author.Login),
			false,
			false,
		),
		nil,
		nil,
	)

	elements := make([]slack.MixedElement, 0, len(icons)+3)
	if pr.Author.AvatarUrl != "" {
		elements = append(elements, slack.NewImageBlockElement(pr.Author.AvatarUrl, pr.Author.Login))
	}
	elements = append(elements,
		slack.NewTextBlockObject(slack.PlainTextType, stateEmoji(pr), true, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("(+%d, -%d)", pr.Additions, pr.Deletions), false, false),
	)

	if len(icons) == 0 {
		elements = append(elements, slack.NewTextBlockObject(slack.MarkdownType, "_unknown languages_", false, false))
	}
	for _, icon := range icons {
		elements = append(elements, slack.NewTextBlockObject(slack.PlainTextType, icon, true, false))
	}

	if len(elements) > maxContextElements {
		elements = elements[:maxContextElements]
	}

	return []slack.Block{
		header,
		slack.NewContextBlock("files", elements...),
	}
}
