package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsValueAndScan(t *testing.T) {
	tags := Tags{"go", "databases"}

	v, err := tags.Value()
	require.NoError(t, err)
	assert.Equal(t, `["go","databases"]`, v)

	var out Tags
	require.NoError(t, out.Scan(v))
	assert.Equal(t, tags, out)

	var fromBytes Tags
	require.NoError(t, fromBytes.Scan([]byte(`["a"]`)))
	assert.Equal(t, Tags{"a"}, fromBytes)

	var fromNil Tags
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestTagsValueNil(t *testing.T) {
	var tags Tags
	v, err := tags.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestValidVoteDirection(t *testing.T) {
	assert.True(t, ValidVoteDirection(VoteUp))
	assert.True(t, ValidVoteDirection(VoteDown))
	assert.False(t, ValidVoteDirection("sideways"))
	assert.False(t, ValidVoteDirection(""))
}

func TestValidReportReason(t *testing.T) {
	for _, r := range []string{ReportReasonSpam, ReportReasonAbuse, ReportReasonOther} {
		assert.True(t, ValidReportReason(r))
	}
	assert.False(t, ValidReportReason("dislike"))
}

func TestUserRoleHelpers(t *testing.T) {
	admin := User{Role: RoleAdmin}
	premium := User{Role: RolePremium}
	general := User{Role: RoleGeneral}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsPremium())
	assert.False(t, premium.IsAdmin())
	assert.True(t, premium.IsPremium())
	assert.False(t, general.IsPremium())

	assert.True(t, ValidRole(RoleGeneral))
	assert.False(t, ValidRole("superuser"))
}

func TestAppErrorWrapping(t *testing.T) {
	notFound := NewNotFoundError("post", 42)
	assert.Equal(t, "NOT_FOUND", notFound.Code)
	assert.Contains(t, notFound.Error(), "42")

	inner := assert.AnError
	internal := NewInternalError(inner)
	assert.ErrorIs(t, internal, inner)
}
