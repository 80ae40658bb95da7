package database

import (
	"database/sql"
	"time"
)

type User struct {
	Id        int
	Username  string
	CreatedAt time.Time
}

type Course struct {
	Id           int
	Title        string
	InstructorId int
}

type Assignment struct {
	Id          int
	CourseId    int
	CreatorId   int
	Title       string
	Description string
	DueDate     sql.NullTime
	CreatedAt   time.Time
}

type Submission struct {
	Id           int
	AssignmentId int
	StudentId    int
	Content      string
	Grade        sql.NullFloat64
	Feedback     sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Chatroom struct {
	Id        int
	Name      string
	CreatedAt time.Time
}

type DirectMessage struct {
	Id      int
	User1Id int
	User2Id int
}

// HasParticipant reports whether userId is one of the two conversation members.
func (dm DirectMessage) HasParticipant(userId int) bool {
	return dm.User1Id == userId || dm.User2Id == userId
}

// OtherParticipant returns the member that is not userId.
func (dm DirectMessage) OtherParticipant(userId int) int {
	if dm.User1Id == userId {
		return dm.User2Id
	}
	return dm.User1Id
}

// Message belongs to exactly one of a chatroom or a direct message thread.
type Message struct {
	Id         int
	ChatroomId sql.NullInt64
	DmId       sql.NullInt64
	SenderId   int
	Content    string
	CreatedAt  time.Time
}

type Notification struct {
	Id           int
	SenderId     sql.NullInt64
	RecipientId  int
	Content      string
	Type         string
	ReferenceId  sql.NullInt64
	AssignmentId sql.NullInt64
	SubmissionId sql.NullInt64
	CourseId     sql.NullInt64
	Read         bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateNotificationParams holds everything but the recipient, so one set of
// params can be fanned out to many recipients.
type CreateNotificationParams struct {
	SenderId     sql.NullInt64
	Content      string
	Type         string
	ReferenceId  sql.NullInt64
	AssignmentId sql.NullInt64
	SubmissionId sql.NullInt64
	CourseId     sql.NullInt64
}

type CreateMessageParams struct {
	ChatroomId int
	DmId       int
	SenderId   int
	Content    string
}

type ListMessagesParams struct {
	ChatroomId int
	DmId       int
	Before     int
	Limit      int
}

type CreateAssignmentParams struct {
	CourseId    int
	CreatorId   int
	Title       string
	Description string
	DueDate     sql.NullTime
}

type CreateSubmissionParams struct {
	AssignmentId int
	StudentId    int
	Content      string
}

type GradeSubmissionParams struct {
	SubmissionId int
	Grade        float64
	Feedback     string
}

func NullInt(v int) sql.NullInt64 {
	if v <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}
