package authz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Аудитории объявлений: все, совет или жильцы одного этажа.
const (
	AudienceAll     = "all"
	AudienceCouncil = "council"
)

func FloorAudience(floor int) string { return fmt.Sprintf("floor_%d", floor) }

// AudienceFloor разбирает "floor_N".
func AudienceFloor(audience string) (int, bool) {
	rest, ok := strings.CutPrefix(audience, "floor_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || !ValidFloor(n) {
		return 0, false
	}
	return n, true
}

func ValidAudience(audience string) bool {
	if audience == AudienceAll || audience == AudienceCouncil {
		return true
	}
	_, ok := AudienceFloor(audience)
	return ok
}

func allFloorAudiences() []string {
	out := make([]string, 0, MaxFloor-MinFloor+1)
	for f := MinFloor; f <= MaxFloor; f++ {
		out = append(out, FloorAudience(f))
	}
	return out
}

// AvailableAudiences - кому актор может адресовать объявление. Пусто - создавать нельзя.
func AvailableAudiences(actor Actor) []string {
	if actor.IsStaff() || actor.isCouncilLead() {
		return append(append([]string{AudienceAll}, allFloorAudiences()...), AudienceCouncil)
	}
	for _, p := range actor.Positions {
		switch p.Kind {
		case KindMediaSector, KindCulturalSector, KindSportsSector, KindDutySupervisor:
			return append([]string{AudienceAll}, allFloorAudiences()...)
		}
	}
	var out []string
	seen := map[int]bool{}
	for _, p := range actor.Positions {
		if p.IsFloorScoped() && !seen[p.Floor] {
			seen[p.Floor] = true
			out = append(out, FloorAudience(p.Floor))
		}
	}
	return out
}

func CanManageAnnouncements(actor Actor) bool {
	return len(AvailableAudiences(actor)) > 0
}

func CanPublishTo(actor Actor, audience string) bool {
	for _, a := range AvailableAudiences(actor) {
		if a == audience {
			return true
		}
	}
	return false
}

// CanEditAnnouncement - автор или персонал.
func CanEditAnnouncement(actor Actor, createdBy uuid.UUID) bool {
	return actor.IsStaff() || (createdBy != uuid.Nil && createdBy == actor.ID)
}

func CanSeeAnnouncement(actor Actor, audience string, createdBy uuid.UUID) bool {
	if actor.IsStaff() || actor.isCouncilManager() {
		return true
	}
	if createdBy != uuid.Nil && createdBy == actor.ID {
		return true
	}
	switch audience {
	case AudienceAll:
		return true
	case AudienceCouncil:
		return len(actor.Positions) > 0
	}
	if floor, ok := AudienceFloor(audience); ok {
		own, ok := RoomFloor(actor.Room)
		return ok && own == floor
	}
	return false
}
