package dto

type CreateWebhookDTO struct {
	HookId string
	Owner  string
	Name   string
}
