package workflow

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidRoom       = errors.New("неверный номер комнаты")
	ErrSameRoom          = errors.New("вы уже проживаете в этой комнате")
	ErrInvalidTransition = errors.New("недопустимый переход состояния")
	ErrNoPendingRequest  = errors.New("нет заявки на смену комнаты")
)

// Номер комнаты - только цифры. Этаж вне 2-5 не ошибка: такую заявку
// решает руководство (authz.CanApproveRoom).
var roomNumberPattern = regexp.MustCompile(`^[0-9]{1,5}$`)

type RoomState int

const (
	NoRoom RoomState = iota
	PendingApproval
	Approved
	Rejected
)

func (s RoomState) String() string {
	switch s {
	case PendingApproval:
		return "pending_approval"
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	}
	return "no_room"
}

// RoomAssignment - поля пользователя, относящиеся к комнате.
// PendingRoom != "" и Confirmed = true одновременно не бывает.
type RoomAssignment struct {
	Room        string
	PendingRoom string
	Confirmed   bool
}

func StateOf(a RoomAssignment) RoomState {
	switch {
	case a.PendingRoom != "":
		return PendingApproval
	case a.Room == "":
		return NoRoom
	case a.Confirmed:
		return Approved
	}
	return Rejected
}

func ValidRoomNumber(room string) bool { return roomNumberPattern.MatchString(room) }

// RequestRoom переводит в PendingApproval из любого состояния.
// Незакрытая заявка заменяется, прежний номер возвращается в superseded.
func RequestRoom(a RoomAssignment, room string) (next RoomAssignment, superseded string, err error) {
	if !ValidRoomNumber(room) {
		return a, "", ErrInvalidRoom
	}
	if StateOf(a) == Approved && a.Room == room {
		return a, "", ErrSameRoom
	}
	return RoomAssignment{Room: a.Room, PendingRoom: room, Confirmed: false}, a.PendingRoom, nil
}

// Approve: room := pendingRoom, заявка закрыта, комната подтверждена.
func Approve(a RoomAssignment) (RoomAssignment, error) {
	if StateOf(a) != PendingApproval {
		return a, ErrNoPendingRequest
	}
	return RoomAssignment{Room: a.PendingRoom, PendingRoom: "", Confirmed: true}, nil
}

// Reject закрывает заявку, комната не меняется. Отклонённый номер нужен только для уведомления.
func Reject(a RoomAssignment) (next RoomAssignment, rejected string, err error) {
	if StateOf(a) != PendingApproval {
		return a, "", ErrNoPendingRequest
	}
	return RoomAssignment{Room: a.Room, PendingRoom: "", Confirmed: false}, a.PendingRoom, nil
}
