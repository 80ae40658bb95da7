package database

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockLearnLinkRepository struct {
	mock.Mock
}

func (m *MockLearnLinkRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockLearnLinkRepository) GetAccountById(ctx context.Context, userId int) (User, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockLearnLinkRepository) CreateNotification(ctx context.Context, recipientId int, params CreateNotificationParams) (Notification, error) {
	args := m.Called(ctx, recipientId, params)
	return args.Get(0).(Notification), args.Error(1)
}
func (m *MockLearnLinkRepository) CreateNotifications(ctx context.Context, recipientIds []int, params CreateNotificationParams) ([]Notification, error) {
	args := m.Called(ctx, recipientIds, params)
	if ns, ok := args.Get(0).([]Notification); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockLearnLinkRepository) ListNotifications(ctx context.Context, recipientId int) ([]Notification, error) {
	args := m.Called(ctx, recipientId)
	if ns, ok := args.Get(0).([]Notification); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockLearnLinkRepository) CountUnreadNotifications(ctx context.Context, recipientId int) (int, error) {
	args := m.Called(ctx, recipientId)
	return args.Int(0), args.Error(1)
}
func (m *MockLearnLinkRepository) MarkNotificationRead(ctx context.Context, notificationId, recipientId int) (Notification, error) {
	args := m.Called(ctx, notificationId, recipientId)
	return args.Get(0).(Notification), args.Error(1)
}
func (m *MockLearnLinkRepository) MarkAllNotificationsRead(ctx context.Context, recipientId int) (int64, error) {
	args := m.Called(ctx, recipientId)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLearnLinkRepository) DeleteNotification(ctx context.Context, notificationId, recipientId int) (Notification, error) {
	args := m.Called(ctx, notificationId, recipientId)
	return args.Get(0).(Notification), args.Error(1)
}
func (m *MockLearnLinkRepository) DeleteAllNotifications(ctx context.Context, recipientId int) ([]Notification, error) {
	args := m.Called(ctx, recipientId)
	if ns, ok := args.Get(0).([]Notification); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockLearnLinkRepository) GetChatroom(ctx context.Context, chatroomId int) (Chatroom, error) {
	args := m.Called(ctx, chatroomId)
	return args.Get(0).(Chatroom), args.Error(1)
}
func (m *MockLearnLinkRepository) IsChatroomMember(ctx context.Context, chatroomId, userId int) (bool, error) {
	args := m.Called(ctx, chatroomId, userId)
	return args.Bool(0), args.Error(1)
}
func (m *MockLearnLinkRepository) ListChatroomMemberIds(ctx context.Context, chatroomId int) ([]int, error) {
	args := m.Called(ctx, chatroomId)
	if ids, ok := args.Get(0).([]int); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockLearnLinkRepository) GetDirectMessage(ctx context.Context, dmId int) (DirectMessage, error) {
	args := m.Called(ctx, dmId)
	return args.Get(0).(DirectMessage), args.Error(1)
}
func (m *MockLearnLinkRepository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockLearnLinkRepository) ListMessages(ctx context.Context, params ListMessagesParams) ([]Message, error) {
	args := m.Called(ctx, params)
	if ms, ok := args.Get(0).([]Message); ok {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockLearnLinkRepository) GetCourse(ctx context.Context, courseId int) (Course, error) {
	args := m.Called(ctx, courseId)
	return args.Get(0).(Course), args.Error(1)
}
func (m *MockLearnLinkRepository) IsEnrolled(ctx context.Context, courseId, userId int) (bool, error) {
	args := m.Called(ctx, courseId, userId)
	return args.Bool(0), args.Error(1)
}
func (m *MockLearnLinkRepository) ListEnrolledUserIds(ctx context.Context, courseId int) ([]int, error) {
	args := m.Called(ctx, courseId)
	if ids, ok := args.Get(0).([]int); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockLearnLinkRepository) CreateAssignment(ctx context.Context, params CreateAssignmentParams) (Assignment, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Assignment), args.Error(1)
}
func (m *MockLearnLinkRepository) GetAssignment(ctx context.Context, assignmentId int) (Assignment, error) {
	args := m.Called(ctx, assignmentId)
	return args.Get(0).(Assignment), args.Error(1)
}
func (m *MockLearnLinkRepository) CreateSubmission(ctx context.Context, params CreateSubmissionParams) (Submission, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Submission), args.Error(1)
}
func (m *MockLearnLinkRepository) GetSubmission(ctx context.Context, submissionId int) (Submission, error) {
	args := m.Called(ctx, submissionId)
	return args.Get(0).(Submission), args.Error(1)
}
func (m *MockLearnLinkRepository) GradeSubmission(ctx context.Context, params GradeSubmissionParams) (Submission, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Submission), args.Error(1)
}
