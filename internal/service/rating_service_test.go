package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

func newRatingService(
	sessionRepo *fakeSessionRepo,
	enrollmentRepo *fakeEnrollmentRepo,
	ratingRepo *fakeRatingRepo,
	instructorRepo *fakeInstructorRatingRepo,
	userRepo *fakeUserRepo,
) service.RatingService {
	return service.NewRatingService(ratingRepo, instructorRepo, enrollmentRepo, sessionRepo, userRepo)
}

func completedSession(instructorID uuid.UUID) *model.Session {
	return &model.Session{
		InstructorID: instructorID,
		StartAt:      time.Now().Add(-2 * time.Hour),
		DurationMin:  60,
		Capacity:     10,
		Completed:    true,
	}
}

func TestRateSession_HappyPath(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()
	ratingRepo := newFakeRatingRepo()

	session := completedSession(uuid.New())
	sessionRepo.add(session)

	userID := uuid.New()
	enrollmentRepo.markEnrolled(userID, session.ID)

	svc := newRatingService(sessionRepo, enrollmentRepo, ratingRepo, newFakeInstructorRatingRepo(), newFakeUserRepo())

	comment := "very calming"
	rating, err := svc.RateSession(context.Background(), session.ID, userID, 5, &comment)
	require.NoError(t, err)
	require.Equal(t, 5, rating.Score)
	require.NotEqual(t, uuid.Nil, rating.ID)
}

func TestRateSession_ScoreOutOfRange(t *testing.T) {
	svc := newRatingService(newFakeSessionRepo(), newFakeEnrollmentRepo(), newFakeRatingRepo(), newFakeInstructorRatingRepo(), newFakeUserRepo())

	for _, score := range []int{0, 6, -1} {
		_, err := svc.RateSession(context.Background(), uuid.New(), uuid.New(), score, nil)
		require.ErrorIs(t, err, service.ErrInvalidScore)
	}
}

func TestRateSession_RequiresEnrollment(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	session := completedSession(uuid.New())
	sessionRepo.add(session)

	svc := newRatingService(sessionRepo, newFakeEnrollmentRepo(), newFakeRatingRepo(), newFakeInstructorRatingRepo(), newFakeUserRepo())

	_, err := svc.RateSession(context.Background(), session.ID, uuid.New(), 4, nil)
	require.ErrorIs(t, err, service.ErrNotEnrolled)
}

func TestRateSession_DuplicateRejected(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()
	ratingRepo := newFakeRatingRepo()

	session := completedSession(uuid.New())
	sessionRepo.add(session)

	userID := uuid.New()
	enrollmentRepo.markEnrolled(userID, session.ID)
	ratingRepo.markRated(userID, session.ID)

	svc := newRatingService(sessionRepo, enrollmentRepo, ratingRepo, newFakeInstructorRatingRepo(), newFakeUserRepo())

	_, err := svc.RateSession(context.Background(), session.ID, userID, 4, nil)
	require.ErrorIs(t, err, service.ErrAlreadyRated)
}

func TestRateSession_SelfRatingForbidden(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()

	instructorID := uuid.New()
	session := completedSession(instructorID)
	sessionRepo.add(session)

	// An instructor somehow enrolled in their own session still cannot rate it.
	enrollmentRepo.markEnrolled(instructorID, session.ID)

	svc := newRatingService(sessionRepo, enrollmentRepo, newFakeRatingRepo(), newFakeInstructorRatingRepo(), newFakeUserRepo())

	_, err := svc.RateSession(context.Background(), session.ID, instructorID, 4, nil)
	require.ErrorIs(t, err, service.ErrSelfRatingForbidden)
}

func TestRateSession_RequiresCompletion(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()

	session := completedSession(uuid.New())
	session.Completed = false
	sessionRepo.add(session)

	userID := uuid.New()
	enrollmentRepo.markEnrolled(userID, session.ID)

	svc := newRatingService(sessionRepo, enrollmentRepo, newFakeRatingRepo(), newFakeInstructorRatingRepo(), newFakeUserRepo())

	_, err := svc.RateSession(context.Background(), session.ID, userID, 4, nil)
	require.ErrorIs(t, err, service.ErrSessionNotCompleted)
}

func TestRateInstructor_HappyPath(t *testing.T) {
	userRepo := newFakeUserRepo()
	instructor := &model.User{Name: "Ana", Role: model.RoleInstructor}
	userRepo.add(instructor)

	enrollmentRepo := newFakeEnrollmentRepo()
	enrollmentRepo.hasCompleted = true

	svc := newRatingService(newFakeSessionRepo(), enrollmentRepo, newFakeRatingRepo(), newFakeInstructorRatingRepo(), userRepo)

	rating, err := svc.RateInstructor(context.Background(), instructor.ID, uuid.New(), 5, "wonderful guidance")
	require.NoError(t, err)
	require.Equal(t, instructor.ID, rating.InstructorID)
}

func TestRateInstructor_CommentTooShort(t *testing.T) {
	svc := newRatingService(newFakeSessionRepo(), newFakeEnrollmentRepo(), newFakeRatingRepo(), newFakeInstructorRatingRepo(), newFakeUserRepo())

	_, err := svc.RateInstructor(context.Background(), uuid.New(), uuid.New(), 5, "nice")
	require.ErrorIs(t, err, service.ErrCommentTooShort)
}

func TestRateInstructor_RequiresCompletedSessionTogether(t *testing.T) {
	userRepo := newFakeUserRepo()
	instructor := &model.User{Name: "Ana", Role: model.RoleInstructor}
	userRepo.add(instructor)

	enrollmentRepo := newFakeEnrollmentRepo()
	enrollmentRepo.hasCompleted = false

	svc := newRatingService(newFakeSessionRepo(), enrollmentRepo, newFakeRatingRepo(), newFakeInstructorRatingRepo(), userRepo)

	_, err := svc.RateInstructor(context.Background(), instructor.ID, uuid.New(), 5, "wonderful guidance")
	require.ErrorIs(t, err, service.ErrNotAttended)
}

func TestRateInstructor_TargetMustBeInstructor(t *testing.T) {
	userRepo := newFakeUserRepo()
	member := &model.User{Name: "Bob", Role: model.RoleMember}
	userRepo.add(member)

	enrollmentRepo := newFakeEnrollmentRepo()
	enrollmentRepo.hasCompleted = true

	svc := newRatingService(newFakeSessionRepo(), enrollmentRepo, newFakeRatingRepo(), newFakeInstructorRatingRepo(), userRepo)

	_, err := svc.RateInstructor(context.Background(), member.ID, uuid.New(), 5, "wonderful guidance")
	require.ErrorIs(t, err, service.ErrInstructorNotFound)
}

func TestUpdateInstructorRating_OwnershipChecks(t *testing.T) {
	userRepo := newFakeUserRepo()
	instructor := &model.User{Name: "Ana", Role: model.RoleInstructor}
	userRepo.add(instructor)

	enrollmentRepo := newFakeEnrollmentRepo()
	enrollmentRepo.hasCompleted = true

	instructorRepo := newFakeInstructorRatingRepo()
	svc := newRatingService(newFakeSessionRepo(), enrollmentRepo, newFakeRatingRepo(), instructorRepo, userRepo)

	owner := uuid.New()
	rating, err := svc.RateInstructor(context.Background(), instructor.ID, owner, 4, "solid sessions")
	require.NoError(t, err)

	// Wrong instructor in the path.
	err = svc.UpdateInstructorRating(context.Background(), rating.ID, uuid.New(), owner, 5, "even better now")
	require.ErrorIs(t, err, service.ErrInstructorMismatch)

	// Someone else's rating.
	err = svc.UpdateInstructorRating(context.Background(), rating.ID, instructor.ID, uuid.New(), 5, "even better now")
	require.ErrorIs(t, err, service.ErrNotOwner)

	require.NoError(t, svc.UpdateInstructorRating(context.Background(), rating.ID, instructor.ID, owner, 5, "even better now"))
}
