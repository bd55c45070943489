package domain

import "context"

type Profile struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	Experience string   `json:"experience"`
	Instrument string   `json:"instrument"`
	Goal       string   `json:"goal"`
	Genres     []string `json:"genres"`
	Gear       []string `json:"gear"`
}

type ProfileRepository interface {
	FindAll(ctx context.Context) ([]Profile, error)
	Insert(ctx context.Context, p Profile) (*Profile, error)
}
