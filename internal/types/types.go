package types

import (
	"time"
)

type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Message struct {
	Id         int       `json:"id"`
	RoomId     string    `json:"room_id"`
	ChatroomId int       `json:"chatroom_id,omitempty"`
	DmId       int       `json:"dm_id,omitempty"`
	SenderId   int       `json:"sender_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type Notification struct {
	Id           int       `json:"id"`
	SenderId     *int      `json:"sender_id"`
	RecipientId  int       `json:"recipient_id"`
	Content      string    `json:"content"`
	Type         string    `json:"type"`
	ReferenceId  *int      `json:"reference_id,omitempty"`
	AssignmentId *int      `json:"assignment_id,omitempty"`
	SubmissionId *int      `json:"submission_id,omitempty"`
	CourseId     *int      `json:"course_id,omitempty"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Assignment struct {
	Id          int        `json:"id"`
	CourseId    int        `json:"course_id"`
	CreatorId   int        `json:"creator_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Submission struct {
	Id           int       `json:"id"`
	AssignmentId int       `json:"assignment_id"`
	StudentId    int       `json:"student_id"`
	Content      string    `json:"content"`
	Grade        *float64  `json:"grade,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Push is a live payload for a connected client. Exactly one field is set.
type Push struct {
	Message      *Message      `json:"message,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

// Delivery reports the outcome of a best-effort push.
type Delivery struct {
	Targeted int
	Queued   int
	Dropped  int
}

func (d Delivery) Add(o Delivery) Delivery {
	return Delivery{
		Targeted: d.Targeted + o.Targeted,
		Queued:   d.Queued + o.Queued,
		Dropped:  d.Dropped + o.Dropped,
	}
}
