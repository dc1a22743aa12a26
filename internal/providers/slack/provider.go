// Package slack talks to the chat platform Web API.
package slack

import "context"

//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks

type Provider interface {
	PostMessage(ctx context.Context, msg Message) (Receipt, error)
	OpenView(ctx context.Context, triggerID string, view any) error
	AddRemoteFile(ctx context.Context, file RemoteFile) (string, error)
	ListUsers(ctx context.Context, cursor string) (UserPage, error)
}

// Message is a direct message; Channel may be a user id.
type Message struct {
	Channel string
	Text    string
	Blocks  any
}

// Receipt identifies a delivered message.
type Receipt struct {
	Channel string
	TS      string
}

type RemoteFile struct {
	ExternalID string
	URL        string
	Title      string
	FileType   string
}

type Profile struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type User struct {
	ID       string  `json:"id"`
	RealName string  `json:"real_name"`
	IsBot    bool    `json:"is_bot"`
	Deleted  bool    `json:"deleted"`
	Profile  Profile `json:"profile"`
}

type UserPage struct {
	Members    []User
	NextCursor string
}
