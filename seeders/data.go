package seeders

// DemoUser - жилец или член совета для демонстрационной базы.
type DemoUser struct {
	Name       string
	Email      string
	Room       string
	Group      string
	StudyYears int
	Role       string
	Positions  []string
}

const demoPassword = "dorm12345"

var demoUsers = []DemoUser{
	{Name: "Ирина Волкова", Email: "chairman@dorm.local", Room: "501", Group: "3ИСП", StudyYears: 4, Role: "member", Positions: []string{"chairman"}},
	{Name: "Павел Орлов", Email: "vice@dorm.local", Room: "502", Group: "3БУ", StudyYears: 4, Role: "member", Positions: []string{"vice_chairman"}},
	{Name: "Мария Соколова", Email: "secretary@dorm.local", Room: "410", Group: "2ИСП", StudyYears: 4, Role: "member", Positions: []string{"secretary"}},
	{Name: "Денис Кузнецов", Email: "household@dorm.local", Room: "315", Group: "2АБ", StudyYears: 3, Role: "member", Positions: []string{"household_sector"}},
	{Name: "Алина Морозова", Email: "head2@dorm.local", Room: "204", Group: "2БУ", StudyYears: 3, Role: "member", Positions: []string{"floor_2_head"}},
	{Name: "Олег Белов", Email: "head3@dorm.local", Room: "306", Group: "1ИСП", StudyYears: 4, Role: "member", Positions: []string{"floor_3_head", "floor_3_cleanliness"}},
	{Name: "Светлана Егорова", Email: "clean4@dorm.local", Room: "407", Group: "1БУ", StudyYears: 3, Role: "member", Positions: []string{"floor_4_cleanliness"}},
	{Name: "Артём Лебедев", Email: "resident1@dorm.local", Room: "301", Group: "1АБ", StudyYears: 3, Role: "member"},
	{Name: "Ксения Попова", Email: "resident2@dorm.local", Room: "301", Group: "1ИСП", StudyYears: 4, Role: "member"},
	{Name: "Никита Фёдоров", Email: "resident3@dorm.local", Room: "412", Group: "2ИСП", StudyYears: 4, Role: "member"},
	{Name: "Ольга Новикова", Email: "moderator@dorm.local", Role: "moderator"},
}
