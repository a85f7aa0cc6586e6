package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
)

func residentsSheet(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestResidentImport(t *testing.T) {
	users := newFakeUserRepo(resident("olga", "302", true))
	bus := &capturePublisher{}
	importer := NewResidentImporter(users, bus, zap.NewNop())

	sheet := residentsSheet(t,
		[]interface{}{"Список заселения на сентябрь"},
		[]interface{}{"ФИО", "Email", "Комната", "Группа", "Лет обучения"},
		[]interface{}{"Иванов Иван", " IVAN@dorm.test ", "301", "2МОС", "4"},
		[]interface{}{"Петров Пётр", "not-an-email", "302"},
		[]interface{}{},
		[]interface{}{"Ольга", "olga@dorm.test", "302"},
		[]interface{}{"Сидоров", "sid@dorm.test", "3-12"},
		[]interface{}{"Кузнецов", "kuz@dorm.test", "", "", "четыре"},
		[]interface{}{"Новикова Анна", "nov@dorm.test"},
	)

	res, err := importer.Import(ctxAs(testActor(authz.RoleManager, "")), sheet, "welcome1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Existing)
	assert.Len(t, res.Failed, 3)
	assert.Contains(t, res.Failed[0], "строка 4")
	assert.Equal(t, []string{"user.registered", "user.registered"}, bus.names())

	ivan, err := users.FindByEmail(context.Background(), "ivan@dorm.test")
	require.NoError(t, err)
	assert.Equal(t, "301", ivan.Room.String)
	assert.True(t, ivan.RoomConfirmed, "комнаты из таблицы сразу подтверждены")
	assert.Equal(t, "2МОС", ivan.EntryGroup.String)
	assert.Equal(t, 4, ivan.StudyYears.Int)
	assert.NotEqual(t, "welcome1", ivan.Password)

	nov, err := users.FindByEmail(context.Background(), "nov@dorm.test")
	require.NoError(t, err)
	assert.False(t, nov.Room.Valid)
	assert.False(t, nov.RoomConfirmed)
}

func TestResidentImportRejectsBadInput(t *testing.T) {
	importer := NewResidentImporter(newFakeUserRepo(), &capturePublisher{}, zap.NewNop())
	ctx := ctxAs(testActor(authz.RoleManager, ""))

	_, err := importer.Import(ctx, residentsSheet(t, []interface{}{"ФИО", "Email"}), "123")
	assert.Error(t, err, "короткий пароль")

	_, err = importer.Import(ctx, residentsSheet(t, []interface{}{"Комната", "Группа"}), "welcome1")
	assert.Error(t, err, "нет шапки")

	_, err = importer.Import(context.Background(), residentsSheet(t, []interface{}{"ФИО", "Email"}), "welcome1")
	assert.Error(t, err, "без актора")
}
