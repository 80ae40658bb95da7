package database

import "context"

type LearnLinkRepository interface {
	Ping(ctx context.Context) error
	GetAccountById(ctx context.Context, userId int) (User, error)

	CreateNotification(ctx context.Context, recipientId int, params CreateNotificationParams) (Notification, error)
	CreateNotifications(ctx context.Context, recipientIds []int, params CreateNotificationParams) ([]Notification, error)
	ListNotifications(ctx context.Context, recipientId int) ([]Notification, error)
	CountUnreadNotifications(ctx context.Context, recipientId int) (int, error)
	MarkNotificationRead(ctx context.Context, notificationId, recipientId int) (Notification, error)
	MarkAllNotificationsRead(ctx context.Context, recipientId int) (int64, error)
	DeleteNotification(ctx context.Context, notificationId, recipientId int) (Notification, error)
	DeleteAllNotifications(ctx context.Context, recipientId int) ([]Notification, error)

	GetChatroom(ctx context.Context, chatroomId int) (Chatroom, error)
	IsChatroomMember(ctx context.Context, chatroomId, userId int) (bool, error)
	ListChatroomMemberIds(ctx context.Context, chatroomId int) ([]int, error)
	GetDirectMessage(ctx context.Context, dmId int) (DirectMessage, error)
	CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error)
	ListMessages(ctx context.Context, params ListMessagesParams) ([]Message, error)

	GetCourse(ctx context.Context, courseId int) (Course, error)
	IsEnrolled(ctx context.Context, courseId, userId int) (bool, error)
	ListEnrolledUserIds(ctx context.Context, courseId int) ([]int, error)
	CreateAssignment(ctx context.Context, params CreateAssignmentParams) (Assignment, error)
	GetAssignment(ctx context.Context, assignmentId int) (Assignment, error)
	CreateSubmission(ctx context.Context, params CreateSubmissionParams) (Submission, error)
	GetSubmission(ctx context.Context, submissionId int) (Submission, error)
	GradeSubmission(ctx context.Context, params GradeSubmissionParams) (Submission, error)
}
