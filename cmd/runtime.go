package cmd

import (
	"github.com/linanwx/cloudchat/app"
	"github.com/linanwx/cloudchat/bus"
	"github.com/linanwx/cloudchat/chat"
	"github.com/linanwx/cloudchat/client"
	"github.com/linanwx/cloudchat/config"
	"github.com/linanwx/cloudchat/suggest"
)

func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Server.BaseURL)
}

func newSession(cfg *config.Config, api *client.Client) *chat.Session {
	return chat.NewSession(api, chat.Config{Timeout: cfg.Chat.Timeout})
}

// buildContainer assembles the session, the board and the bus between them.
// The returned func closes the bus and must run after Container.Stop.
func buildContainer(cfg *config.Config) (*app.Container, func()) {
	api := newClient(cfg)
	board := suggest.NewBoard(api, suggest.Config{Count: cfg.Suggestions.Count})
	b := bus.NewBus(0)
	return app.New(newSession(cfg, api), board, b), b.Close
}
