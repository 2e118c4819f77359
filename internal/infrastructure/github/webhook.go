package github

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	gh "github.com/google/go-github/v42/github"
	"github.com/niklvrr/codereviewbot/internal/domain"
)

const (
	EventPing          = "ping"
	EventPullRequest   = "pull_request"
	EventReview        = "pull_request_review"
	signatureHeader    = "X-Hub-Signature"
	signature256Header = "X-Hub-Signature-256"
)

var (
	ErrUnsupportedEvent = errors.New("unsupported event type")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// ParseEvent разбирает доставку вебхука. Подписанная доставка приходит от хука,
// созданного сервисом; подпись проверяется, если задан секрет
func ParseEvent(r *http.Request, secret string) (domain.Event, error) {
	eventType := gh.WebHookType(r)
	switch eventType {
	case EventPing, EventPullRequest, EventReview:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, eventType)
	}

	autoHook := r.Header.Get(signatureHeader) != "" || r.Header.Get(signature256Header) != ""

	var payload []byte
	var err error
	if autoHook && secret != "" {
		payload, err = gh.ValidatePayload(r, []byte(secret))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	} else {
		payload, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}

	raw, err := gh.ParseWebHook(eventType, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch e := raw.(type) {
	case *gh.PingEvent:
		return &domain.PingEvent{HookId: e.GetHookID(), Zen: e.GetZen()}, nil

	case *gh.PullRequestEvent:
		if e.PullRequest == nil {
			return nil, fmt.Errorf("%w: pull_request is missing", ErrMalformedPayload)
		}
		return &domain.PrEvent{
			Action:      domain.PrAction(e.GetAction()),
			Number:      e.GetNumber(),
			PullRequest: ToPrDetails(e.PullRequest),
			AutoHook:    autoHook,
		}, nil

	case *gh.PullRequestReviewEvent:
		if e.PullRequest == nil || e.Review == nil {
			return nil, fmt.Errorf("%w: pull_request or review is missing", ErrMalformedPayload)
		}

		action := domain.ReviewAction(e.GetAction())
		state, ok := domain.ParseReviewState(e.Review.GetState())
		if !ok && action == domain.ReviewActionSubmitted {
			return nil, fmt.Errorf("%w: review state %q", ErrMalformedPayload, e.Review.GetState())
		}

		return &domain.ReviewEvent{
			Action:      action,
			PullRequest: ToPrDetails(e.PullRequest),
			Reviewer:    ToUser(e.Review.GetUser()),
			State:       state,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, eventType)
}
