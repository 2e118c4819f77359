package domain

type MessageRef struct {
	Channel string
	Ts      string
}

type Reaction string

const (
	ReactionComment Reaction = "eyes"
	ReactionApprove Reaction = "white_check_mark"
)

func ReactionFor(state ReviewState) Reaction {
	if state == ReviewStateApproved {
		return ReactionApprove
	}
	return ReactionComment
}

type ChatOAuth struct {
	UserId      string
	AccessToken string
	TeamId      string
}

type SlashCommand struct {
	Command     string
	Text        string
	ChannelId   string
	UserId      string
	UserName    string
	ResponseUrl string
}
