package domain

import "time"

type User struct {
	id        UserID
	email     Email
	nickname  Nickname
	avatar    AvatarURL
	createdAt time.Time
}

func NewUser(id UserID, email Email, nickname Nickname, avatar AvatarURL, createdAt time.Time) *User {
	return &User{
		id:        id,
		email:     email,
		nickname:  nickname,
		avatar:    avatar,
		createdAt: createdAt,
	}
}

func (u *User) ID() UserID           { return u.id }
func (u *User) EntityID() string     { return string(u.id) }
func (u *User) Email() Email         { return u.email }
func (u *User) Nickname() Nickname   { return u.nickname }
func (u *User) AvatarURL() AvatarURL { return u.avatar }
func (u *User) CreatedAt() time.Time { return u.createdAt }

func (u *User) UpdateNickname(n Nickname) { u.nickname = n }

func (u *User) UpdateAvatarURL(a AvatarURL) { u.avatar = a }
