package authz

// Role - уровень доступа пользователя. Чем меньше ранг, тем больше прав.
type Role string

const (
	RoleManager   Role = "manager"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
	RoleUnknown   Role = ""
)

const unknownRank = 999

var roleRanks = map[Role]int{
	RoleManager:   0,
	RoleAdmin:     1,
	RoleModerator: 2,
	RoleMember:    3,
}

var roleNames = map[Role]string{
	RoleManager:   "Руководитель",
	RoleAdmin:     "Администратор",
	RoleModerator: "Модератор",
	RoleMember:    "Участник",
}

// AllRoles в порядке убывания привилегий.
func AllRoles() []Role {
	return []Role{RoleManager, RoleAdmin, RoleModerator, RoleMember}
}

func ParseRole(s string) Role {
	r := Role(s)
	if _, ok := roleRanks[r]; ok {
		return r
	}
	return RoleUnknown
}

func Rank(r Role) int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return unknownRank
}

// CanManage - актор управляет целью только при строго большем уровне прав.
func CanManage(actor, target Role) bool {
	return Rank(actor) < Rank(target)
}

// IsStaff - руководитель, администратор или модератор.
func IsStaff(r Role) bool {
	return Rank(r) <= Rank(RoleModerator)
}

func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

func (r Role) DisplayName() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Неизвестно"
}
