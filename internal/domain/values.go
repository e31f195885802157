package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxNicknameLength  = 30
	MaxAvatarURLLength = 2048
	MaxPostTitleLength = 100
	MaxPostBodyLength  = 10000
	MaxCommentLength   = 5000
	MaxMessageLength   = 5000
)

var validate = validator.New()

// boundedText trims raw and checks it holds 1..max code points.
func boundedText(field, raw string, max int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if err := validate.Var(trimmed, "required"); err != nil {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if err := validate.Var(trimmed, "max="+strconv.Itoa(max)); err != nil {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return trimmed, nil
}

// Email is a lower-cased, format-checked address.
type Email struct{ value string }

func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(normalized, "required,email"); err != nil {
		return Email{}, &ValidationError{Field: "email", Reason: fmt.Sprintf("%q is not a valid address", raw)}
	}
	return Email{value: normalized}, nil
}

// RestoreEmail rebuilds an Email from trusted storage without validation.
func RestoreEmail(v string) Email { return Email{value: v} }

func (e Email) String() string { return e.value }

// LocalPart returns the part of the address before '@'.
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(e.value, "@")
	return local
}

type Nickname struct{ value string }

func NewNickname(raw string) (Nickname, error) {
	v, err := boundedText("nickname", raw, MaxNicknameLength)
	if err != nil {
		return Nickname{}, err
	}
	return Nickname{value: v}, nil
}

func RestoreNickname(v string) Nickname { return Nickname{value: v} }

func (n Nickname) String() string { return n.value }

// AvatarURL is optional. The zero value means "no avatar".
type AvatarURL struct{ value string }

// NewAvatarURL collapses empty or whitespace-only input to no avatar and
// otherwise requires an http(s) URL of at most MaxAvatarURLLength characters.
func NewAvatarURL(raw string) (AvatarURL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return AvatarURL{}, nil
	}
	if err := validate.Var(trimmed, "startswith=http://|startswith=https://"); err != nil {
		return AvatarURL{}, &ValidationError{Field: "avatar url", Reason: "only http or https URLs are allowed"}
	}
	if err := validate.Var(trimmed, "max="+strconv.Itoa(MaxAvatarURLLength)); err != nil {
		return AvatarURL{}, &ValidationError{Field: "avatar url", Reason: fmt.Sprintf("must be at most %d characters", MaxAvatarURLLength)}
	}
	return AvatarURL{value: trimmed}, nil
}

func RestoreAvatarURL(v string) AvatarURL { return AvatarURL{value: v} }

// Value returns the URL and whether one is set.
func (a AvatarURL) Value() (string, bool) { return a.value, a.value != "" }

func (a AvatarURL) String() string { return a.value }

type PostContent struct {
	title string
	body  string
}

func NewPostContent(title, body string) (PostContent, error) {
	t, err := boundedText("post title", title, MaxPostTitleLength)
	if err != nil {
		return PostContent{}, err
	}
	b, err := boundedText("post body", body, MaxPostBodyLength)
	if err != nil {
		return PostContent{}, err
	}
	return PostContent{title: t, body: b}, nil
}

func RestorePostContent(title, body string) PostContent {
	return PostContent{title: title, body: body}
}

func (c PostContent) Title() string { return c.title }
func (c PostContent) Body() string  { return c.body }

type CommentBody struct{ value string }

func NewCommentBody(raw string) (CommentBody, error) {
	v, err := boundedText("comment body", raw, MaxCommentLength)
	if err != nil {
		return CommentBody{}, err
	}
	return CommentBody{value: v}, nil
}

func RestoreCommentBody(v string) CommentBody { return CommentBody{value: v} }

func (b CommentBody) String() string { return b.value }

type MessageBody struct{ value string }

func NewMessageBody(raw string) (MessageBody, error) {
	v, err := boundedText("message body", raw, MaxMessageLength)
	if err != nil {
		return MessageBody{}, err
	}
	return MessageBody{value: v}, nil
}

func RestoreMessageBody(v string) MessageBody { return MessageBody{value: v} }

func (b MessageBody) String() string { return b.value }
