package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/notify"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

type CreateAssignmentRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type CreateSubmissionRequest struct {
	Content string `json:"content"`
}

type GradeSubmissionRequest struct {
	Grade    *float64 `json:"grade"`
	Feedback string   `json:"feedback"`
}

func assignmentDTO(a database.Assignment) types.Assignment {
	dto := types.Assignment{
		Id:          a.Id,
		CourseId:    a.CourseId,
		CreatorId:   a.CreatorId,
		Title:       a.Title,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
	if a.DueDate.Valid {
		due := a.DueDate.Time
		dto.DueDate = &due
	}
	return dto
}

func submissionDTO(s database.Submission) types.Submission {
	dto := types.Submission{
		Id:           s.Id,
		AssignmentId: s.AssignmentId,
		StudentId:    s.StudentId,
		Content:      s.Content,
		Feedback:     s.Feedback.String,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.Grade.Valid {
		grade := s.Grade.Float64
		dto.Grade = &grade
	}
	return dto
}

func (s *LearnLinkApp) createAssignment(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	courseId, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateAssignmentRequest
	if err := decodeJson(w, r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	ctx := r.Context()
	course, err := s.db.GetCourse(ctx, courseId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if course.InstructorId != userId {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	params := database.CreateAssignmentParams{
		CourseId:    courseId,
		CreatorId:   userId,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != nil {
		params.DueDate = sql.NullTime{Time: *req.DueDate, Valid: true}
	}

	assignment, err := s.db.CreateAssignment(ctx, params)
	if err != nil {
		s.writeError(w, err)
		return
	}

	enrolled, err := s.db.ListEnrolledUserIds(ctx, courseId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	dto := assignmentDTO(assignment)
	if _, err := s.notifier.Notify(ctx, notify.AssignmentCreated{
		CourseId:        courseId,
		CreatorId:       userId,
		EnrolledUserIds: enrolled,
		Assignment:      dto,
	}); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, dto)
}

func (s *LearnLinkApp) createSubmission(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	assignmentId, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateSubmissionRequest
	if err := decodeJson(w, r, &req); err != nil || strings.TrimSpace(req.Content) == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	ctx := r.Context()
	assignment, err := s.db.GetAssignment(ctx, assignmentId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	enrolled, err := s.db.IsEnrolled(ctx, assignment.CourseId, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !enrolled {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	course, err := s.db.GetCourse(ctx, assignment.CourseId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	submission, err := s.db.CreateSubmission(ctx, database.CreateSubmissionParams{
		AssignmentId: assignmentId,
		StudentId:    userId,
		Content:      req.Content,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	dto := submissionDTO(submission)
	if _, err := s.notifier.Notify(ctx, notify.SubmissionReceived{
		InstructorId: course.InstructorId,
		StudentName:  s.username(ctx, userId),
		Submission:   dto,
		Assignment:   assignmentDTO(assignment),
	}); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, dto)
}

func (s *LearnLinkApp) gradeSubmission(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	submissionId, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req GradeSubmissionRequest
	if err := decodeJson(w, r, &req); err != nil || req.Grade == nil || *req.Grade < 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	ctx := r.Context()
	submission, err := s.db.GetSubmission(ctx, submissionId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	assignment, err := s.db.GetAssignment(ctx, submission.AssignmentId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	course, err := s.db.GetCourse(ctx, assignment.CourseId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if course.InstructorId != userId {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	graded, err := s.db.GradeSubmission(ctx, database.GradeSubmissionParams{
		SubmissionId: submissionId,
		Grade:        *req.Grade,
		Feedback:     req.Feedback,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	dto := submissionDTO(graded)
	if _, err := s.notifier.Notify(ctx, notify.SubmissionGraded{
		StudentId:  graded.StudentId,
		GraderId:   userId,
		Submission: dto,
		Assignment: assignmentDTO(assignment),
	}); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, dto)
}
