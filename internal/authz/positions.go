package authz

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownPosition = errors.New("неизвестная должность")

type PositionKind int

const (
	KindChairman PositionKind = iota + 1
	KindViceChairman
	KindSecretary
	KindMediaSector
	KindCulturalSector
	KindSportsSector
	KindDutySupervisor
	KindHouseholdSector
	KindFloorHead
	KindFloorCleanliness
)

const (
	MinFloor = 2
	MaxFloor = 5
)

// Position - должность в студсовете. Floor заполнен только для этажных должностей.
type Position struct {
	Kind  PositionKind
	Floor int
}

var fixedKeys = map[PositionKind]string{
	KindChairman:        "chairman",
	KindViceChairman:    "vice_chairman",
	KindSecretary:       "secretary",
	KindMediaSector:     "media_sector",
	KindCulturalSector:  "cultural_sector",
	KindSportsSector:    "sports_sector",
	KindDutySupervisor:  "duty_supervisor",
	KindHouseholdSector: "household_sector",
}

var fixedNames = map[PositionKind]string{
	KindChairman:        "Председатель студсовета общежития",
	KindViceChairman:    "Заместитель председателя студсовета общежития",
	KindSecretary:       "Секретарь студсовета общежития",
	KindMediaSector:     "Ответственный за медиа-сектор",
	KindCulturalSector:  "Ответственный за культурно-массовый сектор",
	KindSportsSector:    "Ответственный за спортивный сектор",
	KindDutySupervisor:  "Ответственный за дежурства",
	KindHouseholdSector: "Ответственный за хозяйственно-бытовой сектор",
}

var floorOrdinals = map[int]string{
	2: "второго",
	3: "третьего",
	4: "четвёртого",
	5: "пятого",
}

func FloorHead(floor int) Position        { return Position{Kind: KindFloorHead, Floor: floor} }
func FloorCleanliness(floor int) Position { return Position{Kind: KindFloorCleanliness, Floor: floor} }

func ValidFloor(floor int) bool { return floor >= MinFloor && floor <= MaxFloor }

// ParsePosition разбирает ключ вида "chairman" или "floor_3_head".
func ParsePosition(key string) (Position, error) {
	for kind, k := range fixedKeys {
		if k == key {
			return Position{Kind: kind}, nil
		}
	}

	rest, ok := strings.CutPrefix(key, "floor_")
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrUnknownPosition, key)
	}
	num, suffix, ok := strings.Cut(rest, "_")
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrUnknownPosition, key)
	}
	floor, err := strconv.Atoi(num)
	if err != nil || !ValidFloor(floor) {
		return Position{}, fmt.Errorf("%w: %q", ErrUnknownPosition, key)
	}
	switch suffix {
	case "head":
		return FloorHead(floor), nil
	case "cleanliness":
		return FloorCleanliness(floor), nil
	}
	return Position{}, fmt.Errorf("%w: %q", ErrUnknownPosition, key)
}

func (p Position) Key() string {
	switch p.Kind {
	case KindFloorHead:
		return fmt.Sprintf("floor_%d_head", p.Floor)
	case KindFloorCleanliness:
		return fmt.Sprintf("floor_%d_cleanliness", p.Floor)
	}
	return fixedKeys[p.Kind]
}

func (p Position) DisplayName() string {
	switch p.Kind {
	case KindFloorHead:
		return fmt.Sprintf("Староста %s этажа", floorOrdinals[p.Floor])
	case KindFloorCleanliness:
		return fmt.Sprintf("Ответственный за порядок и чистоту %s этажа", floorOrdinals[p.Floor])
	}
	return fixedNames[p.Kind]
}

// Order - место в иерархии совета: сектора, затем старосты 5→2, затем ответственные за чистоту 5→2.
func (p Position) Order() int {
	switch p.Kind {
	case KindFloorHead:
		return int(KindFloorHead) + (MaxFloor - p.Floor)
	case KindFloorCleanliness:
		return int(KindFloorHead) + (MaxFloor - MinFloor + 1) + (MaxFloor - p.Floor)
	}
	return int(p.Kind)
}

func (p Position) IsFloorScoped() bool {
	return p.Kind == KindFloorHead || p.Kind == KindFloorCleanliness
}

// AllPositions - полный каталог в порядке иерархии.
func AllPositions() []Position {
	out := make([]Position, 0, 16)
	for k := KindChairman; k <= KindHouseholdSector; k++ {
		out = append(out, Position{Kind: k})
	}
	for f := MaxFloor; f >= MinFloor; f-- {
		out = append(out, FloorHead(f))
	}
	for f := MaxFloor; f >= MinFloor; f-- {
		out = append(out, FloorCleanliness(f))
	}
	return out
}

func SortPositions(ps []Position) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Order() < ps[j].Order() })
}

// Positions - набор должностей пользователя.
type Positions []Position

// ParsePositions отбрасывает дубликаты и возвращает ошибку на первом неизвестном ключе.
func ParsePositions(keys []string) (Positions, error) {
	seen := make(map[Position]bool, len(keys))
	out := make(Positions, 0, len(keys))
	for _, k := range keys {
		p, err := ParsePosition(k)
		if err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	SortPositions(out)
	return out, nil
}

// MustParsePositions для данных из БД: неизвестные ключи пропускаются.
func MustParsePositions(keys []string) Positions {
	out := make(Positions, 0, len(keys))
	for _, k := range keys {
		if p, err := ParsePosition(k); err == nil {
			out = append(out, p)
		}
	}
	SortPositions(out)
	return out
}

func (ps Positions) Has(kind PositionKind) bool {
	for _, p := range ps {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

func (ps Positions) Contains(p Position) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}

func (ps Positions) HeadsFloor(floor int) bool  { return ps.Contains(FloorHead(floor)) }
func (ps Positions) CleansFloor(floor int) bool { return ps.Contains(FloorCleanliness(floor)) }

// HeadedFloors - этажи, на которых пользователь староста.
func (ps Positions) HeadedFloors() []int {
	var floors []int
	for _, p := range ps {
		if p.Kind == KindFloorHead {
			floors = append(floors, p.Floor)
		}
	}
	return floors
}

func (ps Positions) Keys() []string {
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key()
	}
	return keys
}
