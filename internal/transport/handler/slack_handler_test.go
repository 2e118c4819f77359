package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func slashCommand(path, text string) *http.Request {
	form := url.Values{
		"command":      {"/code_review_bot"},
		"text":         {text},
		"channel_id":   {"C9"},
		"user_id":      {"U1"},
		"user_name":    {"alice"},
		"response_url": {"https://hooks.slack.com/commands/1"},
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSlackHandler_Review_Posted(t *testing.T) {
	mockService := new(MockCommandService)
	handler := NewSlackHandler(mockService, zap.NewNop())

	mockService.On("Review", mock.Anything, &domain.SlashCommand{
		Command:     "/code_review_bot",
		Text:        "https://github.com/acme/widgets/pull/42",
		ChannelId:   "C9",
		UserId:      "U1",
		UserName:    "alice",
		ResponseUrl: "https://hooks.slack.com/commands/1",
	}).Return(nil, nil)

	w := httptest.NewRecorder()
	handler.Review(w, slashCommand("/review", "https://github.com/acme/widgets/pull/42"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestSlackHandler_Review_EphemeralAck(t *testing.T) {
	mockService := new(MockCommandService)
	handler := NewSlackHandler(mockService, zap.NewNop())
	ack := []byte(`{"text":"Specify pull request","response_type":"ephemeral"}`)

	mockService.On("Review", mock.Anything, mock.Anything).Return(ack, nil)

	w := httptest.NewRecorder()
	handler.Review(w, slashCommand("/review", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, string(ack), w.Body.String())
}

func TestSlackHandler_Review_Malformed(t *testing.T) {
	mockService := new(MockCommandService)
	handler := NewSlackHandler(mockService, zap.NewNop())

	mockService.On("Review", mock.Anything, mock.Anything).Return(nil, usecase.ErrMalformedInput)

	w := httptest.NewRecorder()
	handler.Review(w, slashCommand("/review", "nonsense"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, usecase.CodeMalformedInput, decodeError(t, w).Code)
}

func TestSlackHandler_Reviews(t *testing.T) {
	mockService := new(MockCommandService)
	handler := NewSlackHandler(mockService, zap.NewNop())

	mockService.On("Reviews", mock.Anything, mock.MatchedBy(func(cmd *domain.SlashCommand) bool {
		return cmd.ChannelId == "C9"
	})).Return(nil)

	w := httptest.NewRecorder()
	handler.Reviews(w, slashCommand("/reviews", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSlackHandler_Reviews_StorageError(t *testing.T) {
	mockService := new(MockCommandService)
	handler := NewSlackHandler(mockService, zap.NewNop())

	mockService.On("Reviews", mock.Anything, mock.Anything).Return(usecase.ErrStorage)

	w := httptest.NewRecorder()
	handler.Reviews(w, slashCommand("/reviews", ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSlackHandler_Event_UrlVerification(t *testing.T) {
	handler := NewSlackHandler(new(MockCommandService), zap.NewNop())
	body := `{"token":"t","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P","type":"url_verification"}`

	req := httptest.NewRequest(http.MethodPost, "/slack_event", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Event(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P"}`, w.Body.String())
}

func TestSlackHandler_Event_Callback(t *testing.T) {
	handler := NewSlackHandler(new(MockCommandService), zap.NewNop())
	body := `{"token":"t","team_id":"T1","type":"event_callback","event":{"type":"app_mention","user":"U1","text":"hi","ts":"1.1","channel":"C1","event_ts":"1.1"}}`

	req := httptest.NewRequest(http.MethodPost, "/slack_event", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.Event(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSlackHandler_Event_Invalid(t *testing.T) {
	handler := NewSlackHandler(new(MockCommandService), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/slack_event", strings.NewReader(`not json`))
	w := httptest.NewRecorder()
	handler.Event(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
