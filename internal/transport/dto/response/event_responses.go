package response

const (
	StatusOk   = "ok"
	StatusPong = "pong"
)

type EventResponse struct {
	Status string `json:"status"`
}

type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}
