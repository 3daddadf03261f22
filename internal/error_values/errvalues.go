package errorvalues

import "errors"

var (
	ErrUserExists         = errors.New("such user already exists")
	ErrUserNotFound       = errors.New("user doesn't exists")
	ErrWrongCredentials   = errors.New("wrong name or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSelfRequest        = errors.New("cannot send friend request to yourself")
	ErrInvalidInvite      = errors.New("invite must carry a clerk id or a username")
	ErrAlreadyFriends     = errors.New("already friends with this user")
	ErrRequestPending     = errors.New("friend request already pending")
	ErrFriendshipNotFound = errors.New("friendship doesn't exists")
	ErrNotReceiver        = errors.New("only the receiver can respond to a request")
	ErrRequestClosed      = errors.New("request already accepted or rejected")
)
