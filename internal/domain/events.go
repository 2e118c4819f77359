package domain

type PrAction string

const (
	PrActionOpened         PrAction = "opened"
	PrActionReadyForReview PrAction = "ready_for_review"
	PrActionClosed         PrAction = "closed"
)

type ReviewAction string

const (
	ReviewActionSubmitted ReviewAction = "submitted"
	ReviewActionEdited    ReviewAction = "edited"
	ReviewActionDismissed ReviewAction = "dismissed"
)

// Event реализуют все входящие события GitHub, которые обрабатывает сервис
type Event interface {
	event()
}

type PrEvent struct {
	Action      PrAction
	Number      int
	PullRequest PrDetails
	// AutoHook отмечает доставки от хука, созданного самим сервисом
	AutoHook bool
}

type ReviewEvent struct {
	Action      ReviewAction
	PullRequest PrDetails
	Reviewer    User
	State       ReviewState
}

type PingEvent struct {
	HookId int64
	Zen    string
}

func (*PrEvent) event()     {}
func (*ReviewEvent) event() {}
func (*PingEvent) event()   {}
