package notify

import (
	"errors"
	"strings"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

// Event is a domain occurrence that may produce notifications and live pushes.
type Event interface {
	validate() error
}

// RoomMessage is a chatroom message that has already been stored. MemberIds
// are the chatroom's members at send time.
type RoomMessage struct {
	ChatroomId int
	SenderName string
	Message    types.Message
	MemberIds  []int
}

// DirectMessage carries the decrypted message content.
type DirectMessage struct {
	DmId        int
	RecipientId int
	SenderName  string
	Message     types.Message
}

type AssignmentCreated struct {
	CourseId        int
	CreatorId       int
	EnrolledUserIds []int
	Assignment      types.Assignment
}

type SubmissionReceived struct {
	InstructorId int
	StudentName  string
	Submission   types.Submission
	Assignment   types.Assignment
}

type SubmissionGraded struct {
	StudentId  int
	GraderId   int
	Submission types.Submission
	Assignment types.Assignment
}

// AdHoc is a notification created directly through the API.
type AdHoc struct {
	SenderId    int
	RecipientId int
	Content     string
	Type        string
	ReferenceId int
}

func (e RoomMessage) validate() error {
	if e.ChatroomId <= 0 {
		return errors.New("missing chatroom id")
	}
	if e.Message.Id <= 0 {
		return errors.New("message has not been stored")
	}
	return nil
}

func (e DirectMessage) validate() error {
	if e.DmId <= 0 {
		return errors.New("missing direct message id")
	}
	if e.RecipientId <= 0 {
		return errors.New("missing recipient")
	}
	if e.Message.Id <= 0 {
		return errors.New("message has not been stored")
	}
	return nil
}

func (e AssignmentCreated) validate() error {
	if e.CourseId <= 0 || e.Assignment.Id <= 0 {
		return errors.New("missing course or assignment")
	}
	return nil
}

func (e SubmissionReceived) validate() error {
	if e.InstructorId <= 0 {
		return errors.New("missing instructor")
	}
	if e.Submission.Id <= 0 {
		return errors.New("missing submission")
	}
	return nil
}

func (e SubmissionGraded) validate() error {
	if e.StudentId <= 0 {
		return errors.New("missing student")
	}
	if e.Submission.Id <= 0 {
		return errors.New("missing submission")
	}
	return nil
}

func (e AdHoc) validate() error {
	if e.RecipientId <= 0 {
		return errors.New("missing recipient")
	}
	if strings.TrimSpace(e.Content) == "" {
		return errors.New("empty content")
	}
	return nil
}
