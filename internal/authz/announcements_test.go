package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAvailableAudiences(t *testing.T) {
	assert.Equal(t,
		[]string{"all", "floor_2", "floor_3", "floor_4", "floor_5", "council"},
		AvailableAudiences(actor(RoleModerator, "")))
	assert.Equal(t,
		[]string{"all", "floor_2", "floor_3", "floor_4", "floor_5"},
		AvailableAudiences(actor(RoleMember, "", Position{Kind: KindSportsSector})))
	assert.Equal(t,
		[]string{"floor_3"},
		AvailableAudiences(actor(RoleMember, "", FloorHead(3), FloorCleanliness(3))))
	assert.Empty(t, AvailableAudiences(actor(RoleMember, "301")))
	assert.False(t, CanManageAnnouncements(actor(RoleMember, "301", Position{Kind: KindSecretary})))
}

func TestCanSeeAnnouncement(t *testing.T) {
	author := uuid.New()
	resident := actor(RoleMember, "402")

	assert.True(t, CanSeeAnnouncement(resident, AudienceAll, author))
	assert.True(t, CanSeeAnnouncement(resident, "floor_4", author))
	assert.False(t, CanSeeAnnouncement(resident, "floor_3", author))
	assert.False(t, CanSeeAnnouncement(resident, AudienceCouncil, author))
	assert.True(t, CanSeeAnnouncement(actor(RoleMember, "", FloorCleanliness(2)), AudienceCouncil, author))

	resident.ID = author
	assert.True(t, CanSeeAnnouncement(resident, "floor_3", author), "автор видит своё")
	assert.True(t, CanEditAnnouncement(resident, author))
	assert.False(t, CanEditAnnouncement(actor(RoleMember, "402"), author))
	assert.False(t, CanEditAnnouncement(actor(RoleMember, "402"), uuid.Nil))
}
