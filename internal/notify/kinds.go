package notify

import (
	"database/sql"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

const (
	TypeNewAssignment        = "new_assignment"
	TypeAssignmentSubmission = "assignment_submission"
	TypeSubmissionGraded     = "submission_graded"
	TypePrivateMessage       = "private_message"
	TypeChatroomMessage      = "chatroom_message"
	TypeEvent                = "event"
)

// Kind is the typed form of a notification's type column. Each kind owns
// exactly the reference columns it needs.
type Kind interface {
	Type() string
	apply(p *database.CreateNotificationParams)
}

type NewAssignment struct {
	AssignmentId int
	CourseId     int
}

type AssignmentSubmission struct {
	AssignmentId int
	SubmissionId int
	CourseId     int
}

type GradedSubmission struct {
	AssignmentId int
	SubmissionId int
	CourseId     int
}

type PrivateMessage struct {
	DmId int
}

type ChatroomMessage struct {
	ChatroomId int
}

// Generic covers free-form types such as "event" that carry at most a
// reference id.
type Generic struct {
	Kind        string
	ReferenceId int
}

func (NewAssignment) Type() string { return TypeNewAssignment }
func (AssignmentSubmission) Type() string { return TypeAssignmentSubmission }
func (GradedSubmission) Type() string { return TypeSubmissionGraded }
func (PrivateMessage) Type() string { return TypePrivateMessage }
func (ChatroomMessage) Type() string { return TypeChatroomMessage }

func (g Generic) Type() string {
	if g.Kind == "" {
		return TypeEvent
	}
	return g.Kind
}

func (k NewAssignment) apply(p *database.CreateNotificationParams) {
	p.AssignmentId = database.NullInt(k.AssignmentId)
	p.CourseId = database.NullInt(k.CourseId)
	p.ReferenceId = database.NullInt(k.AssignmentId)
}

func (k AssignmentSubmission) apply(p *database.CreateNotificationParams) {
	p.AssignmentId = database.NullInt(k.AssignmentId)
	p.SubmissionId = database.NullInt(k.SubmissionId)
	p.CourseId = database.NullInt(k.CourseId)
	p.ReferenceId = database.NullInt(k.SubmissionId)
}

func (k GradedSubmission) apply(p *database.CreateNotificationParams) {
	p.AssignmentId = database.NullInt(k.AssignmentId)
	p.SubmissionId = database.NullInt(k.SubmissionId)
	p.CourseId = database.NullInt(k.CourseId)
	p.ReferenceId = database.NullInt(k.SubmissionId)
}

func (k PrivateMessage) apply(p *database.CreateNotificationParams) {
	p.ReferenceId = database.NullInt(k.DmId)
}

func (k ChatroomMessage) apply(p *database.CreateNotificationParams) {
	p.ReferenceId = database.NullInt(k.ChatroomId)
}

func (k Generic) apply(p *database.CreateNotificationParams) {
	p.ReferenceId = database.NullInt(k.ReferenceId)
}

// Params builds the insert parameters for a notification of kind k.
func Params(k Kind, senderId int, content string) database.CreateNotificationParams {
	p := database.CreateNotificationParams{
		SenderId: database.NullInt(senderId),
		Content:  content,
		Type:     k.Type(),
	}
	k.apply(&p)

	return p
}

// KindOf recovers the typed kind from a stored row.
func KindOf(n database.Notification) Kind {
	switch n.Type {
	case TypeNewAssignment:
		return NewAssignment{
			AssignmentId: nullToInt(n.AssignmentId),
			CourseId:     nullToInt(n.CourseId),
		}
	case TypeAssignmentSubmission:
		return AssignmentSubmission{
			AssignmentId: nullToInt(n.AssignmentId),
			SubmissionId: nullToInt(n.SubmissionId),
			CourseId:     nullToInt(n.CourseId),
		}
	case TypeSubmissionGraded:
		return GradedSubmission{
			AssignmentId: nullToInt(n.AssignmentId),
			SubmissionId: nullToInt(n.SubmissionId),
			CourseId:     nullToInt(n.CourseId),
		}
	case TypePrivateMessage:
		return PrivateMessage{DmId: nullToInt(n.ReferenceId)}
	case TypeChatroomMessage:
		return ChatroomMessage{ChatroomId: nullToInt(n.ReferenceId)}
	default:
		return Generic{Kind: n.Type, ReferenceId: nullToInt(n.ReferenceId)}
	}
}

func ToDTO(n database.Notification) types.Notification {
	return types.Notification{
		Id:           n.Id,
		SenderId:     nullToPtr(n.SenderId),
		RecipientId:  n.RecipientId,
		Content:      n.Content,
		Type:         n.Type,
		ReferenceId:  nullToPtr(n.ReferenceId),
		AssignmentId: nullToPtr(n.AssignmentId),
		SubmissionId: nullToPtr(n.SubmissionId),
		CourseId:     nullToPtr(n.CourseId),
		Read:         n.Read,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func ToDTOs(ns []database.Notification) []types.Notification {
	out := make([]types.Notification, 0, len(ns))
	for _, n := range ns {
		out = append(out, ToDTO(n))
	}
	return out
}

func nullToInt(v sql.NullInt64) int {
	if !v.Valid {
		return 0
	}
	return int(v.Int64)
}

func nullToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
