package service_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

// In-memory fakes for the repository and publisher interfaces, enough to
// drive the service rules without a database.

type fakeSessionRepo struct {
	sessions      map[uuid.UUID]*model.Session
	enrolledUsers map[uuid.UUID][]uuid.UUID
	upcoming      []model.Session

	createErr      error
	markedComplete []uuid.UUID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:      make(map[uuid.UUID]*model.Session),
		enrolledUsers: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeSessionRepo) add(session *model.Session) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	f.sessions[session.ID] = session
}

func (f *fakeSessionRepo) Create(_ context.Context, baseName string, session *model.Session) (*model.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	session.ID = uuid.New()
	session.Name = baseName + " #1"
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, sessionID uuid.UUID) (*model.Session, error) {
	return f.sessions[sessionID], nil
}

func (f *fakeSessionRepo) List(_ context.Context, _, _ int) (*repository.PaginatedSessions, error) {
	return &repository.PaginatedSessions{Data: []model.SessionDetails{}}, nil
}

func (f *fakeSessionRepo) Calendar(_ context.Context, _ repository.CalendarFilter) ([]model.SessionDetails, error) {
	return []model.SessionDetails{}, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, _ uuid.UUID, _ repository.SessionUpdate) error {
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, sessionID uuid.UUID) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionRepo) MarkCompleted(_ context.Context, sessionID uuid.UUID) error {
	f.markedComplete = append(f.markedComplete, sessionID)
	if s, ok := f.sessions[sessionID]; ok {
		s.Completed = true
	}
	return nil
}

func (f *fakeSessionRepo) EnrolledUserIDs(_ context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	return f.enrolledUsers[sessionID], nil
}

func (f *fakeSessionRepo) CountEnrolled(_ context.Context, sessionID uuid.UUID) (int, error) {
	return len(f.enrolledUsers[sessionID]), nil
}

func (f *fakeSessionRepo) AttachTechniques(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func (f *fakeSessionRepo) TechniquesForSession(_ context.Context, _ uuid.UUID) ([]model.Technique, error) {
	return []model.Technique{}, nil
}

func (f *fakeSessionRepo) StartingBetween(_ context.Context, _, _ time.Time) ([]model.Session, error) {
	return f.upcoming, nil
}

type fakeEnrollmentRepo struct {
	enrollments  map[uuid.UUID]*model.Enrollment
	existing     map[uuid.UUID]map[uuid.UUID]bool
	hasCompleted bool
	enrollErr    error
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		enrollments: make(map[uuid.UUID]*model.Enrollment),
		existing:    make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeEnrollmentRepo) Enroll(_ context.Context, sessionID, userID uuid.UUID) (*model.Enrollment, error) {
	if f.enrollErr != nil {
		return nil, f.enrollErr
	}
	enrollment := &model.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		SessionID:  sessionID,
		EnrolledAt: time.Now(),
	}
	f.enrollments[enrollment.ID] = enrollment
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) FindByID(_ context.Context, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	return f.enrollments[enrollmentID], nil
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]model.EnrollmentDetails, error) {
	return []model.EnrollmentDetails{}, nil
}

func (f *fakeEnrollmentRepo) DeleteOwned(_ context.Context, enrollmentID, userID uuid.UUID) (bool, error) {
	e, ok := f.enrollments[enrollmentID]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(f.enrollments, enrollmentID)
	return true, nil
}

func (f *fakeEnrollmentRepo) Exists(_ context.Context, userID, sessionID uuid.UUID) (bool, error) {
	return f.existing[userID][sessionID], nil
}

func (f *fakeEnrollmentRepo) HasCompletedWithInstructor(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return f.hasCompleted, nil
}

func (f *fakeEnrollmentRepo) markEnrolled(userID, sessionID uuid.UUID) {
	if f.existing[userID] == nil {
		f.existing[userID] = make(map[uuid.UUID]bool)
	}
	f.existing[userID][sessionID] = true
}

type fakeSubscriptionRepo struct {
	active      bool
	purchaseSub *model.Subscription
	renewed     bool
	purchaseErr error
	sweepCount  int64
}

func (f *fakeSubscriptionRepo) Purchase(_ context.Context, userID uuid.UUID, costCents int64) (*model.Subscription, bool, error) {
	if f.purchaseErr != nil {
		return nil, false, f.purchaseErr
	}
	if f.purchaseSub == nil {
		f.purchaseSub = &model.Subscription{
			ID:        uuid.New(),
			UserID:    userID,
			CostCents: costCents,
			IsActive:  true,
			StartDate: time.Now(),
			EndDate:   time.Now().Add(30 * 24 * time.Hour),
		}
	}
	return f.purchaseSub, f.renewed, nil
}

func (f *fakeSubscriptionRepo) HasActive(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.active, nil
}

func (f *fakeSubscriptionRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]model.Subscription, error) {
	return []model.Subscription{}, nil
}

func (f *fakeSubscriptionRepo) SweepExpired(_ context.Context) (int64, error) {
	return f.sweepCount, nil
}

type fakeRatingRepo struct {
	ratings   []*model.Rating
	existing  map[uuid.UUID]map[uuid.UUID]bool
	createErr error
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{existing: make(map[uuid.UUID]map[uuid.UUID]bool)}
}

func (f *fakeRatingRepo) Create(_ context.Context, rating *model.Rating) error {
	if f.createErr != nil {
		return f.createErr
	}
	rating.ID = uuid.New()
	rating.CreatedAt = time.Now()
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeRatingRepo) Exists(_ context.Context, userID, sessionID uuid.UUID) (bool, error) {
	return f.existing[userID][sessionID], nil
}

func (f *fakeRatingRepo) ListBySession(_ context.Context, _ uuid.UUID) ([]model.Rating, error) {
	out := make([]model.Rating, 0, len(f.ratings))
	for _, r := range f.ratings {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRatingRepo) markRated(userID, sessionID uuid.UUID) {
	if f.existing[userID] == nil {
		f.existing[userID] = make(map[uuid.UUID]bool)
	}
	f.existing[userID][sessionID] = true
}

type fakeInstructorRatingRepo struct {
	ratings   map[uuid.UUID]*model.InstructorRating
	createErr error
}

func newFakeInstructorRatingRepo() *fakeInstructorRatingRepo {
	return &fakeInstructorRatingRepo{ratings: make(map[uuid.UUID]*model.InstructorRating)}
}

func (f *fakeInstructorRatingRepo) Create(_ context.Context, rating *model.InstructorRating) error {
	if f.createErr != nil {
		return f.createErr
	}
	rating.ID = uuid.New()
	rating.CreatedAt = time.Now()
	f.ratings[rating.ID] = rating
	return nil
}

func (f *fakeInstructorRatingRepo) FindByID(_ context.Context, ratingID uuid.UUID) (*model.InstructorRating, error) {
	return f.ratings[ratingID], nil
}

func (f *fakeInstructorRatingRepo) Update(_ context.Context, ratingID uuid.UUID, score int, comment string) error {
	if r, ok := f.ratings[ratingID]; ok {
		r.Score = score
		r.Comment = comment
	}
	return nil
}

func (f *fakeInstructorRatingRepo) Delete(_ context.Context, ratingID uuid.UUID) error {
	delete(f.ratings, ratingID)
	return nil
}

func (f *fakeInstructorRatingRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]model.InstructorRating, error) {
	return []model.InstructorRating{}, nil
}

func (f *fakeInstructorRatingRepo) ListByInstructor(_ context.Context, _ uuid.UUID) ([]model.InstructorRating, error) {
	return []model.InstructorRating{}, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) add(user *model.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) (uuid.UUID, error) {
	user.ID = uuid.New()
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) AddFunds(_ context.Context, id uuid.UUID, amountCents int64) (int64, error) {
	u, ok := f.users[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	u.BalanceCents += amountCents
	return u.BalanceCents, nil
}

func (f *fakeUserRepo) RegisterDeviceToken(_ context.Context, _ uuid.UUID, _, _ string) error {
	return nil
}

func (f *fakeUserRepo) ListDeviceTokens(_ context.Context, _ uuid.UUID, _ string) ([]string, error) {
	return nil, nil
}

type fakeProfileRepo struct {
	mu             sync.Mutex
	recomputedFor  []uuid.UUID
	createdFor     []uuid.UUID
	profilesByUser map[uuid.UUID]*model.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profilesByUser: make(map[uuid.UUID]*model.UserProfile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdFor = append(f.createdFor, userID)
	f.profilesByUser[userID] = &model.UserProfile{ID: uuid.New(), UserID: userID}
	return nil
}

func (f *fakeProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	p, ok := f.profilesByUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, _ uuid.UUID, _ repository.ProfileUpdate) error {
	return nil
}

func (f *fakeProfileRepo) RecomputeStats(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recomputedFor = append(f.recomputedFor, userID)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	created   int
	joined    int
	completed int
	reminders []uuid.UUID
}

func (f *fakePublisher) PublishSessionCreated(_ *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return nil
}

func (f *fakePublisher) PublishSessionJoined(_, _ uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined++
	return nil
}

func (f *fakePublisher) PublishSessionCompleted(_ *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed++
	return nil
}

func (f *fakePublisher) PublishSessionReminder(_ *model.Session, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, userID)
	return nil
}

func (f *fakePublisher) reminderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reminders)
}
