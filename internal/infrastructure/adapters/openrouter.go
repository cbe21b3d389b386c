package adapters

import (
	"resty.dev/v3"
)

const (
	openRouterReferer = "https://github.com/chatlist/chatlist-server"
	openRouterTitle   = "ChatList"
)

// newOpenRouterAdapter reuses the chat wire format with the attribution
// headers OpenRouter asks clients to send.
func newOpenRouterAdapter(client *resty.Client, endpoint, apiKey string) *chatAdapter {
	return newChatAdapter(client, endpoint, apiKey, map[string]string{
		"HTTP-Referer": openRouterReferer,
		"X-Title":      openRouterTitle,
	})
}
