package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100

	notificationColumns = "id, sender_id, recipient_id, content, type, reference_id, " +
		"assignment_id, submission_id, course_id, read, created_at, updated_at"
	messageColumns    = "id, chatroom_id, dm_id, sender_id, content, created_at"
	assignmentColumns = "id, course_id, creator_id, title, description, due_date, created_at"
	submissionColumns = "id, assignment_id, student_id, content, grade, feedback, created_at, updated_at"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (Notification, error) {
	var n Notification
	err := row.Scan(
		&n.Id,
		&n.SenderId,
		&n.RecipientId,
		&n.Content,
		&n.Type,
		&n.ReferenceId,
		&n.AssignmentId,
		&n.SubmissionId,
		&n.CourseId,
		&n.Read,
		&n.CreatedAt,
		&n.UpdatedAt,
	)

	return n, err
}

func scanNotifications(rows *sql.Rows) ([]Notification, error) {
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return notifications, nil
}

func scanMessage(row scanner) (Message, error) {
	var m Message
	err := row.Scan(
		&m.Id,
		&m.ChatroomId,
		&m.DmId,
		&m.SenderId,
		&m.Content,
		&m.CreatedAt,
	)

	return m, err
}

func scanAssignment(row scanner) (Assignment, error) {
	var a Assignment
	err := row.Scan(
		&a.Id,
		&a.CourseId,
		&a.CreatorId,
		&a.Title,
		&a.Description,
		&a.DueDate,
		&a.CreatedAt,
	)

	return a, err
}

func scanSubmission(row scanner) (Submission, error) {
	var s Submission
	err := row.Scan(
		&s.Id,
		&s.AssignmentId,
		&s.StudentId,
		&s.Content,
		&s.Grade,
		&s.Feedback,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	return s, err
}

func scanIds(rows *sql.Rows) ([]int, error) {
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (db *PgLearnLinkRepository) GetAccountById(ctx context.Context, userId int) (User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM users WHERE id = $1 LIMIT 1",
		userId,
	)

	var u User
	err := row.Scan(&u.Id, &u.Username, &u.CreatedAt)

	return u, mapError(err)
}

func (db *PgLearnLinkRepository) CreateNotification(ctx context.Context, recipientId int, params CreateNotificationParams) (Notification, error) {
	now := time.Now().UTC()
	row := db.conn.QueryRowContext(ctx,
		"INSERT INTO notifications (sender_id, recipient_id, content, type, reference_id, "+
			"assignment_id, submission_id, course_id, read, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9, $9) RETURNING "+notificationColumns,
		params.SenderId,
		recipientId,
		params.Content,
		params.Type,
		params.ReferenceId,
		params.AssignmentId,
		params.SubmissionId,
		params.CourseId,
		now,
	)

	n, err := scanNotification(row)
	return n, mapError(err)
}

// CreateNotifications writes one row per recipient in a single statement, so
// either every row is stored or none is.
func (db *PgLearnLinkRepository) CreateNotifications(ctx context.Context, recipientIds []int, params CreateNotificationParams) ([]Notification, error) {
	if len(recipientIds) == 0 {
		return []Notification{}, nil
	}

	ids := make([]int64, len(recipientIds))
	for i, id := range recipientIds {
		ids[i] = int64(id)
	}

	now := time.Now().UTC()
	rows, err := db.conn.QueryContext(ctx,
		"INSERT INTO notifications (sender_id, recipient_id, content, type, reference_id, "+
			"assignment_id, submission_id, course_id, read, created_at, updated_at) "+
			"SELECT $1::int, r.id, $3::text, $4::text, $5::int, $6::int, $7::int, $8::int, false, $9::timestamptz, $9::timestamptz "+
			"FROM unnest($2::int[]) AS r(id) RETURNING "+notificationColumns,
		params.SenderId,
		pq.Array(ids),
		params.Content,
		params.Type,
		params.ReferenceId,
		params.AssignmentId,
		params.SubmissionId,
		params.CourseId,
		now,
	)
	if err != nil {
		return nil, mapError(err)
	}

	notifications, err := scanNotifications(rows)
	return notifications, mapError(err)
}

func (db *PgLearnLinkRepository) ListNotifications(ctx context.Context, recipientId int) ([]Notification, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+notificationColumns+" FROM notifications "+
			"WHERE recipient_id = $1 ORDER BY created_at DESC, id DESC",
		recipientId,
	)
	if err != nil {
		return nil, err
	}

	return scanNotifications(rows)
}

func (db *PgLearnLinkRepository) CountUnreadNotifications(ctx context.Context, recipientId int) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = false",
		recipientId,
	).Scan(&count)

	return count, err
}

func (db *PgLearnLinkRepository) MarkNotificationRead(ctx context.Context, notificationId, recipientId int) (Notification, error) {
	row := db.conn.QueryRowContext(ctx,
		"UPDATE notifications SET read = true, updated_at = $3 "+
			"WHERE id = $1 AND recipient_id = $2 RETURNING "+notificationColumns,
		notificationId,
		recipientId,
		time.Now().UTC(),
	)

	n, err := scanNotification(row)
	return n, mapError(err)
}

func (db *PgLearnLinkRepository) MarkAllNotificationsRead(ctx context.Context, recipientId int) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE notifications SET read = true, updated_at = $2 WHERE recipient_id = $1 AND read = false",
		recipientId,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (db *PgLearnLinkRepository) DeleteNotification(ctx context.Context, notificationId, recipientId int) (Notification, error) {
	row := db.conn.QueryRowContext(ctx,
		"DELETE FROM notifications WHERE id = $1 AND recipient_id = $2 RETURNING "+notificationColumns,
		notificationId,
		recipientId,
	)

	n, err := scanNotification(row)
	return n, mapError(err)
}

func (db *PgLearnLinkRepository) DeleteAllNotifications(ctx context.Context, recipientId int) ([]Notification, error) {
	rows, err := db.conn.QueryContext(ctx,
		"DELETE FROM notifications WHERE recipient_id = $1 RETURNING "+notificationColumns,
		recipientId,
	)
	if err != nil {
		return nil, err
	}

	return scanNotifications(rows)
}

func (db *PgLearnLinkRepository) GetChatroom(ctx context.Context, chatroomId int) (Chatroom, error) {
	var c Chatroom
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM chatrooms WHERE id = $1 LIMIT 1",
		chatroomId,
	).Scan(&c.Id, &c.Name, &c.CreatedAt)

	return c, mapError(err)
}

func (db *PgLearnLinkRepository) IsChatroomMember(ctx context.Context, chatroomId, userId int) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM chatroom_members WHERE chatroom_id = $1 AND user_id = $2)",
		chatroomId,
		userId,
	).Scan(&exists)

	return exists, err
}

func (db *PgLearnLinkRepository) ListChatroomMemberIds(ctx context.Context, chatroomId int) ([]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT user_id FROM chatroom_members WHERE chatroom_id = $1 ORDER BY user_id",
		chatroomId,
	)
	if err != nil {
		return nil, err
	}

	return scanIds(rows)
}

func (db *PgLearnLinkRepository) GetDirectMessage(ctx context.Context, dmId int) (DirectMessage, error) {
	var dm DirectMessage
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, user1_id, user2_id FROM direct_messages WHERE id = $1 LIMIT 1",
		dmId,
	).Scan(&dm.Id, &dm.User1Id, &dm.User2Id)

	return dm, mapError(err)
}

func (db *PgLearnLinkRepository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	if (params.ChatroomId > 0) == (params.DmId > 0) {
		return Message{}, ErrInvalidMessageTarget
	}

	row := db.conn.QueryRowContext(ctx,
		"INSERT INTO messages (chatroom_id, dm_id, sender_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING "+messageColumns,
		NullInt(params.ChatroomId),
		NullInt(params.DmId),
		params.SenderId,
		params.Content,
		time.Now().UTC(),
	)

	m, err := scanMessage(row)
	return m, mapError(err)
}

// ListMessages returns a page of messages newest first. Before is an exclusive
// message id upper bound; zero means the latest page.
func (db *PgLearnLinkRepository) ListMessages(ctx context.Context, params ListMessagesParams) ([]Message, error) {
	if (params.ChatroomId > 0) == (params.DmId > 0) {
		return nil, ErrInvalidMessageTarget
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	upper := 1<<31 - 1
	if params.Before > 0 {
		upper = params.Before
	}

	column, parentId := "chatroom_id", params.ChatroomId
	if params.DmId > 0 {
		column, parentId = "dm_id", params.DmId
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages "+
			"WHERE "+column+" = $1 AND id < $2 ORDER BY id DESC LIMIT $3",
		parentId,
		upper,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0, limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (db *PgLearnLinkRepository) GetCourse(ctx context.Context, courseId int) (Course, error) {
	var c Course
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, title, instructor_id FROM courses WHERE id = $1 LIMIT 1",
		courseId,
	).Scan(&c.Id, &c.Title, &c.InstructorId)

	return c, mapError(err)
}

func (db *PgLearnLinkRepository) IsEnrolled(ctx context.Context, courseId, userId int) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2)",
		courseId,
		userId,
	).Scan(&exists)

	return exists, err
}

func (db *PgLearnLinkRepository) ListEnrolledUserIds(ctx context.Context, courseId int) ([]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT user_id FROM enrollments WHERE course_id = $1 ORDER BY user_id",
		courseId,
	)
	if err != nil {
		return nil, err
	}

	return scanIds(rows)
}

func (db *PgLearnLinkRepository) CreateAssignment(ctx context.Context, params CreateAssignmentParams) (Assignment, error) {
	row := db.conn.QueryRowContext(ctx,
		"INSERT INTO assignments (course_id, creator_id, title, description, due_date, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+assignmentColumns,
		params.CourseId,
		params.CreatorId,
		params.Title,
		params.Description,
		params.DueDate,
		time.Now().UTC(),
	)

	a, err := scanAssignment(row)
	return a, mapError(err)
}

func (db *PgLearnLinkRepository) GetAssignment(ctx context.Context, assignmentId int) (Assignment, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE id = $1 LIMIT 1",
		assignmentId,
	)

	a, err := scanAssignment(row)
	return a, mapError(err)
}

func (db *PgLearnLinkRepository) CreateSubmission(ctx context.Context, params CreateSubmissionParams) (Submission, error) {
	now := time.Now().UTC()
	row := db.conn.QueryRowContext(ctx,
		"INSERT INTO submissions (assignment_id, student_id, content, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING "+submissionColumns,
		params.AssignmentId,
		params.StudentId,
		params.Content,
		now,
	)

	s, err := scanSubmission(row)
	return s, mapError(err)
}

func (db *PgLearnLinkRepository) GetSubmission(ctx context.Context, submissionId int) (Submission, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+submissionColumns+" FROM submissions WHERE id = $1 LIMIT 1",
		submissionId,
	)

	s, err := scanSubmission(row)
	return s, mapError(err)
}

func (db *PgLearnLinkRepository) GradeSubmission(ctx context.Context, params GradeSubmissionParams) (Submission, error) {
	row := db.conn.QueryRowContext(ctx,
		"UPDATE submissions SET grade = $2, feedback = $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING "+submissionColumns,
		params.SubmissionId,
		params.Grade,
		params.Feedback,
		time.Now().UTC(),
	)

	s, err := scanSubmission(row)
	return s, mapError(err)
}
