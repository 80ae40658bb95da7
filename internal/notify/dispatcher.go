package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/stats"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

var (
	ErrPersistence  = errors.New("notification persistence failed")
	ErrInvalidEvent = errors.New("invalid event")
)

// Notifier is what handlers call once their own write has succeeded. It
// returns after the notifications are stored; live delivery is queued and
// not awaited.
type Notifier interface {
	Notify(ctx context.Context, ev Event) ([]types.Notification, error)
}

type Store interface {
	CreateNotification(ctx context.Context, recipientId int, params database.CreateNotificationParams) (database.Notification, error)
	CreateNotifications(ctx context.Context, recipientIds []int, params database.CreateNotificationParams) ([]database.Notification, error)
}

// Pusher queues payloads on live connections without blocking.
type Pusher interface {
	PushToUsers(userIds []int, push types.Push) types.Delivery
	PushToRoom(room types.RoomKey, push types.Push) types.Delivery
}

type Dispatcher struct {
	log    *log.Logger
	store  Store
	pusher Pusher
	stats  stats.StatsProvider
}

func NewDispatcher(logger *log.Logger, store Store, pusher Pusher, stats stats.StatsProvider) *Dispatcher {
	return &Dispatcher{
		log:    logger,
		store:  store,
		pusher: pusher,
		stats:  stats,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, ev Event) ([]types.Notification, error) {
	if ev == nil {
		return nil, ErrInvalidEvent
	}
	if err := ev.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEvent, err)
	}

	switch e := ev.(type) {
	case RoomMessage:
		return d.roomMessage(ctx, e)
	case DirectMessage:
		return d.directMessage(ctx, e)
	case AssignmentCreated:
		return d.assignmentCreated(ctx, e)
	case SubmissionReceived:
		return d.submissionReceived(ctx, e)
	case SubmissionGraded:
		return d.submissionGraded(ctx, e)
	case AdHoc:
		return d.adHoc(ctx, e)
	default:
		return nil, fmt.Errorf("%w: unsupported event %T", ErrInvalidEvent, ev)
	}
}

func (d *Dispatcher) roomMessage(ctx context.Context, e RoomMessage) ([]types.Notification, error) {
	params := Params(ChatroomMessage{ChatroomId: e.ChatroomId}, e.Message.SenderId,
		fmt.Sprintf("New message from %s", senderLabel(e.SenderName)))

	stored, err := d.persist(ctx, recipients(e.MemberIds, e.Message.SenderId), params)
	if err != nil {
		return nil, err
	}

	room := types.ChatroomKey(e.ChatroomId)
	msg := e.Message
	msg.RoomId = room.String()
	d.observe("room message "+room.String(), d.pusher.PushToRoom(room, types.Push{Message: &msg}))

	return d.pushNotifications(stored), nil
}

func (d *Dispatcher) directMessage(ctx context.Context, e DirectMessage) ([]types.Notification, error) {
	params := Params(PrivateMessage{DmId: e.DmId}, e.Message.SenderId,
		fmt.Sprintf("New message from %s", senderLabel(e.SenderName)))

	stored, err := d.persist(ctx, recipients([]int{e.RecipientId}, e.Message.SenderId), params)
	if err != nil {
		return nil, err
	}

	msg := e.Message
	msg.RoomId = types.DirectMessageKey(e.DmId).String()
	d.observe(fmt.Sprintf("direct message to user %d", e.RecipientId),
		d.pusher.PushToUsers([]int{e.RecipientId}, types.Push{Message: &msg}))

	return d.pushNotifications(stored), nil
}

func (d *Dispatcher) assignmentCreated(ctx context.Context, e AssignmentCreated) ([]types.Notification, error) {
	kind := NewAssignment{AssignmentId: e.Assignment.Id, CourseId: e.CourseId}
	params := Params(kind, e.CreatorId, fmt.Sprintf("New assignment: %s", e.Assignment.Title))

	stored, err := d.persist(ctx, recipients(e.EnrolledUserIds, e.CreatorId), params)
	if err != nil {
		return nil, err
	}

	return d.pushNotifications(stored), nil
}

func (d *Dispatcher) submissionReceived(ctx context.Context, e SubmissionReceived) ([]types.Notification, error) {
	kind := AssignmentSubmission{
		AssignmentId: e.Assignment.Id,
		SubmissionId: e.Submission.Id,
		CourseId:     e.Assignment.CourseId,
	}
	params := Params(kind, e.Submission.StudentId,
		fmt.Sprintf("%s submitted %s", senderLabel(e.StudentName), e.Assignment.Title))

	stored, err := d.persist(ctx, recipients([]int{e.InstructorId}, e.Submission.StudentId), params)
	if err != nil {
		return nil, err
	}

	return d.pushNotifications(stored), nil
}

func (d *Dispatcher) submissionGraded(ctx context.Context, e SubmissionGraded) ([]types.Notification, error) {
	kind := GradedSubmission{
		AssignmentId: e.Assignment.Id,
		SubmissionId: e.Submission.Id,
		CourseId:     e.Assignment.CourseId,
	}
	params := Params(kind, e.GraderId,
		fmt.Sprintf("Your submission for %s has been graded", e.Assignment.Title))

	stored, err := d.persist(ctx, recipients([]int{e.StudentId}, e.GraderId), params)
	if err != nil {
		return nil, err
	}

	return d.pushNotifications(stored), nil
}

func (d *Dispatcher) adHoc(ctx context.Context, e AdHoc) ([]types.Notification, error) {
	params := Params(Generic{Kind: e.Type, ReferenceId: e.ReferenceId}, e.SenderId, e.Content)

	stored, err := d.persist(ctx, []int{e.RecipientId}, params)
	if err != nil {
		return nil, err
	}

	return d.pushNotifications(stored), nil
}

// persist stores one row per recipient. More than one recipient goes through a
// single multi-row insert.
func (d *Dispatcher) persist(ctx context.Context, recipientIds []int, params database.CreateNotificationParams) ([]database.Notification, error) {
	var (
		stored []database.Notification
		err    error
	)

	switch len(recipientIds) {
	case 0:
		return nil, nil
	case 1:
		var n database.Notification
		n, err = d.store.CreateNotification(ctx, recipientIds[0], params)
		stored = []database.Notification{n}
	default:
		stored, err = d.store.CreateNotifications(ctx, recipientIds, params)
	}

	if err != nil {
		d.log.Printf("persist %s notification for %d recipient(s): %v", params.Type, len(recipientIds), err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	d.stats.Add(stats.NotificationsCreated, len(stored))
	return stored, nil
}

func (d *Dispatcher) pushNotifications(stored []database.Notification) []types.Notification {
	dtos := ToDTOs(stored)
	for i := range dtos {
		n := &dtos[i]
		d.observe(fmt.Sprintf("notification %d to user %d", n.Id, n.RecipientId),
			d.pusher.PushToUsers([]int{n.RecipientId}, types.Push{Notification: n}))
	}

	return dtos
}

// observe records the outcome of a best-effort push. Drops are logged and
// counted, never returned.
func (d *Dispatcher) observe(what string, del types.Delivery) {
	d.stats.Add(stats.PushesQueued, del.Queued)
	d.stats.Add(stats.PushesDropped, del.Dropped)

	if del.Dropped > 0 {
		d.log.Printf("push %s: dropped on %d of %d connection(s)", what, del.Dropped, del.Targeted)
	}
}

// recipients removes the actor, non-positive ids and duplicates while keeping
// the original order.
func recipients(ids []int, actorId int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || id == actorId {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func senderLabel(name string) string {
	if name == "" {
		return "a classmate"
	}
	return name
}
