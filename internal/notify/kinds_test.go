package notify

import (
	"database/sql"
	"testing"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/stretchr/testify/assert"
)

func TestKindColumns(t *testing.T) {
	tcases := []struct {
		name     string
		kind     Kind
		expected database.CreateNotificationParams
	}{
		{
			name: "new assignment",
			kind: NewAssignment{AssignmentId: 100, CourseId: 7},
			expected: database.CreateNotificationParams{
				Type:         TypeNewAssignment,
				ReferenceId:  database.NullInt(100),
				AssignmentId: database.NullInt(100),
				CourseId:     database.NullInt(7),
			},
		},
		{
			name: "assignment submission",
			kind: AssignmentSubmission{AssignmentId: 100, SubmissionId: 31, CourseId: 7},
			expected: database.CreateNotificationParams{
				Type:         TypeAssignmentSubmission,
				ReferenceId:  database.NullInt(31),
				AssignmentId: database.NullInt(100),
				SubmissionId: database.NullInt(31),
				CourseId:     database.NullInt(7),
			},
		},
		{
			name: "graded submission",
			kind: GradedSubmission{AssignmentId: 100, SubmissionId: 31, CourseId: 7},
			expected: database.CreateNotificationParams{
				Type:         TypeSubmissionGraded,
				ReferenceId:  database.NullInt(31),
				AssignmentId: database.NullInt(100),
				SubmissionId: database.NullInt(31),
				CourseId:     database.NullInt(7),
			},
		},
		{
			name: "private message",
			kind: PrivateMessage{DmId: 42},
			expected: database.CreateNotificationParams{
				Type:        TypePrivateMessage,
				ReferenceId: database.NullInt(42),
			},
		},
		{
			name: "chatroom message",
			kind: ChatroomMessage{ChatroomId: 3},
			expected: database.CreateNotificationParams{
				Type:        TypeChatroomMessage,
				ReferenceId: database.NullInt(3),
			},
		},
		{
			name:     "generic defaults to event",
			kind:     Generic{},
			expected: database.CreateNotificationParams{Type: TypeEvent},
		},
		{
			name: "generic custom type",
			kind: Generic{Kind: "course_update", ReferenceId: 7},
			expected: database.CreateNotificationParams{
				Type:        "course_update",
				ReferenceId: database.NullInt(7),
			},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			tc.expected.SenderId = database.NullInt(1)
			tc.expected.Content = "content"

			params := Params(tc.kind, 1, "content")
			assert.Equal(t, tc.expected, params)

			stored := database.Notification{
				Type:         params.Type,
				ReferenceId:  params.ReferenceId,
				AssignmentId: params.AssignmentId,
				SubmissionId: params.SubmissionId,
				CourseId:     params.CourseId,
			}
			expectedKind := tc.kind
			if g, ok := tc.kind.(Generic); ok && g.Kind == "" {
				expectedKind = Generic{Kind: TypeEvent}
			}
			assert.Equal(t, expectedKind, KindOf(stored))
		})
	}
}

func TestParamsSystemSender(t *testing.T) {
	params := Params(Generic{}, 0, "maintenance tonight")
	assert.Equal(t, sql.NullInt64{}, params.SenderId)
}

func TestToDTO(t *testing.T) {
	dto := ToDTO(database.Notification{
		Id:           1,
		SenderId:     sql.NullInt64{},
		RecipientId:  2,
		Type:         TypeNewAssignment,
		AssignmentId: database.NullInt(100),
	})

	assert.Nil(t, dto.SenderId)
	assert.Nil(t, dto.SubmissionId)
	if assert.NotNil(t, dto.AssignmentId) {
		assert.Equal(t, 100, *dto.AssignmentId)
	}
}
