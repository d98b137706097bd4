package domain

import "time"

type User struct {
	ID          string
	Name        string
	Handle      string
	AccessToken string
	Avatar      string
	Bio         string
	StatusText  string
	Verified    bool
	Admin       bool
	LastSeen    *time.Time
	CreatedAt   time.Time
}

type UserWithPassword struct {
	User
	PasswordHash string
}

type ExternalAccount struct {
	ID         string
	UserID     string
	Provider   string
	ProviderID string
	Email      string
	CreatedAt  time.Time
}

// UserSummary is the compact shape embedded in friend lists, search
// results and comment bylines.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Avatar string `json:"avatar"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Handle: u.Handle, Avatar: u.Avatar}
}

// UserCard is the full outward projection of a user. Reputation,
// PostsCount, FriendsCount and FriendStatus are derived on every read,
// never stored.
type UserCard struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Handle       string       `json:"handle"`
	Avatar       string       `json:"avatar"`
	Bio          string       `json:"bio"`
	Status       string       `json:"status"`
	Reputation   int          `json:"reputation"`
	PostsCount   int          `json:"postsCount"`
	Verified     bool         `json:"isVerified"`
	Admin        bool         `json:"isAdmin"`
	LastSeen     *time.Time   `json:"lastSeen"`
	FriendStatus FriendStatus `json:"friendStatus"`
	FriendsCount int          `json:"friendsCount"`
}

// Profile is a user's public page: their card plus posts, recent liked
// posts and friend list.
type Profile struct {
	UserCard
	Posts      []PostView    `json:"posts"`
	LikedPosts []PostView    `json:"likedPosts"`
	Friends    []UserSummary `json:"friends"`
}

// NewUser carries everything needed to insert a user row.
type NewUser struct {
	Name         string
	Handle       string
	AccessToken  string
	PasswordHash string
	Avatar       string
	Verified     bool
	Admin        bool
}

// ProfileUpdate carries a partial profile edit; nil fields are untouched.
type ProfileUpdate struct {
	Bio    *string
	Avatar *string
	Status *string
}
