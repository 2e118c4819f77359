package request

import (
	"net/http"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/slack-go/slack"
)

// NewSlashCommand читает slash-команду из формы
func NewSlashCommand(r *http.Request) (*domain.SlashCommand, error) {
	s, err := slack.SlashCommandParse(r)
	if err != nil {
		return nil, err
	}
	return &domain.SlashCommand{
		Command:     s.Command,
		Text:        s.Text,
		ChannelId:   s.ChannelID,
		UserId:      s.UserID,
		UserName:    s.UserName,
		ResponseUrl: s.ResponseURL,
	}, nil
}
