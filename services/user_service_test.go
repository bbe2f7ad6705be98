package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"messenger-be/apperrors"
)

func Test_Register_And_Authenticate_Round_Trip(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewUserService(db)

	about := "hello, I am alice"
	user, err := users.Register("alice", "hunter22", nil, &about)
	req.NoError(err)
	req.Equal("alice", user.Username)
	req.NotEqual("hunter22", user.Password) // stored as a digest, never plaintext

	authed, err := users.Authenticate("alice", "hunter22")
	req.NoError(err)
	req.Equal(user.ID, authed.ID)
}

func Test_Register_Rejects_Taken_Username(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewUserService(db)

	_, err := users.Register("alice", "hunter22", nil, nil)
	req.NoError(err)

	_, err = users.Register("alice", "different", nil, nil)
	req.ErrorIs(err, apperrors.ErrConflict)
}

func Test_Authenticate_Rejects_Bad_Credentials(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewUserService(db)

	_, err := users.Register("alice", "hunter22", nil, nil)
	req.NoError(err)

	_, err = users.Authenticate("alice", "wrong")
	req.ErrorIs(err, apperrors.ErrForbidden)

	_, err = users.Authenticate("nobody", "hunter22")
	req.ErrorIs(err, apperrors.ErrForbidden)
}

func Test_ChangePassword_Verifies_Old_Password(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewUserService(db)

	user, err := users.Register("alice", "hunter22", nil, nil)
	req.NoError(err)

	req.ErrorIs(users.ChangePassword(user.ID, "wrong", "newpassword"), apperrors.ErrForbidden)

	req.NoError(users.ChangePassword(user.ID, "hunter22", "newpassword"))

	_, err = users.Authenticate("alice", "hunter22")
	req.ErrorIs(err, apperrors.ErrForbidden)
	_, err = users.Authenticate("alice", "newpassword")
	req.NoError(err)
}

func Test_UpdateAbout(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewUserService(db)

	user, err := users.Register("alice", "hunter22", nil, nil)
	req.NoError(err)

	req.NoError(users.UpdateAbout(user.ID, "likes long walks"))

	fetched, err := users.FindByID(user.ID)
	req.NoError(err)
	req.NotNil(fetched.About)
	req.Equal("likes long walks", *fetched.About)
}

func Test_SearchUsers_Requires_Four_Character_Prefix(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewUserService(db)

	_, err := users.SearchUsers("ali")
	req.ErrorIs(err, apperrors.ErrValidation)
}

func Test_SearchUsers_Matches_By_Prefix(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	users := NewUserService(db)

	for _, name := range []string{"alice", "alicia", "albert", "bob42"} {
		_, err := users.Register(name, "hunter22", nil, nil)
		req.NoError(err)
	}

	found, err := users.SearchUsers("alic")
	req.NoError(err)
	req.Len(found, 2)
	req.Equal("alice", found[0].Username)
	req.Equal("alicia", found[1].Username)
}
