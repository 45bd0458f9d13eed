package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promote-social.com/promote-social/internal/constants"
	apperrors "promote-social.com/promote-social/internal/errors"
	"promote-social.com/promote-social/internal/metrics"
	model "promote-social.com/promote-social/internal/models"
	repository "promote-social.com/promote-social/internal/repositories"
	"promote-social.com/promote-social/internal/testutil"
	"promote-social.com/promote-social/internal/verification"
)

type fixture struct {
	repos         *repository.Repositories
	users         *UserService
	tasks         *TaskService
	tokens        *TokenService
	verifications *VerificationService
	completions   *CompletionService
}

func newFixture(t *testing.T) *fixture {
	repos := repository.New(testutil.NewDB(t))
	logger := zap.NewNop()
	m := metrics.New(prometheus.NewRegistry())

	tokens := NewTokenService(repos, 5*time.Minute, logger, m)
	verifications := NewVerificationService(repos, verification.NewRegistry(nil), logger)

	return &fixture{
		repos:         repos,
		users:         NewUserService(repos, 50, logger),
		tasks:         NewTaskService(repos, logger, m),
		tokens:        tokens,
		verifications: verifications,
		completions:   NewCompletionService(repos, tokens, verifications, logger, m),
	}
}

func (f *fixture) user(t *testing.T, username string, points int64) *model.User {
	user, err := f.repos.Users.Create(context.Background(), uuid.NewString(), username, points)
	require.NoError(t, err)
	return user
}

func (f *fixture) balance(t *testing.T, userID string) int64 {
	user, err := f.users.GetUser(context.Background(), userID)
	require.NoError(t, err)
	return user.Points
}

func (f *fixture) verify(t *testing.T, userID string, platform constants.Platform) {
	ctx := context.Background()
	v, err := f.verifications.Create(ctx, userID, platform, "handle", "")
	require.NoError(t, err)
	_, err = f.verifications.Verify(ctx, v.ID)
	require.NoError(t, err)
}

func (f *fixture) token(t *testing.T, taskID, userID string) string {
	token := "tok-" + uuid.NewString()
	_, err := f.tokens.Register(context.Background(), taskID, userID, token)
	require.NoError(t, err)
	return token
}

func (f *fixture) submit(t *testing.T, task *model.Task, userID string) *model.TaskCompletion {
	completion, err := f.completions.Submit(context.Background(), Submission{
		TaskID:   task.ID,
		UserID:   userID,
		ProofURL: "proofs/" + userID + ".png",
		Token:    f.token(t, task.ID, userID),
	})
	require.NoError(t, err)
	return completion
}

func xFollowTask(reward, max int64) TaskSpec {
	return TaskSpec{
		Title:          "Follow @promote",
		Platform:       constants.PlatformX,
		ActionType:     constants.ActionFollow,
		Link:           "https://x.com/promote",
		Reward:         reward,
		MaxCompletions: max,
	}
}

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	user, err := f.users.Register(ctx, id, " alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(50), user.Points)

	_, err = f.users.Register(ctx, id, "alice2")
	assert.ErrorIs(t, err, apperrors.ErrUserExists)

	_, err = f.users.Register(ctx, uuid.NewString(), "alice")
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	byName, err := f.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
}

func TestUserService_BalanceNeverNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "alice", 20)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		delta := int64(rng.Intn(61) - 40)
		updated, err := f.users.AdjustBalance(ctx, user.ID, delta)
		require.NoError(t, err)
		require.GreaterOrEqual(t, updated.Points, int64(0))
	}

	_, err := f.users.AdjustBalance(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestTaskService_CreateTaskInsufficientPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 40)

	_, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 5))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPoints)

	created, err := f.tasks.ListCreatedTasks(ctx, creator.ID)
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Equal(t, int64(40), f.balance(t, creator.ID))
}

func TestTaskService_CreateTaskDebitsExactCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)

	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 5))
	require.NoError(t, err)

	assert.Equal(t, int64(0), task.CompletedCount)
	assert.Equal(t, constants.TaskStatusActive, task.Status)
	assert.Equal(t, int64(50), f.balance(t, creator.ID))

	created, err := f.tasks.ListCreatedTasks(ctx, creator.ID)
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestTaskService_CreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "alice", 100)

	bad := []TaskSpec{
		{Platform: constants.PlatformX, ActionType: constants.ActionLike, Link: "l", Reward: 1, MaxCompletions: 1},
		{Title: "t", Platform: "myspace", ActionType: constants.ActionLike, Link: "l", Reward: 1, MaxCompletions: 1},
		{Title: "t", Platform: constants.PlatformX, ActionType: "share", Link: "l", Reward: 1, MaxCompletions: 1},
		{Title: "t", Platform: constants.PlatformX, ActionType: constants.ActionLike, Reward: 1, MaxCompletions: 1},
		{Title: "t", Platform: constants.PlatformX, ActionType: constants.ActionLike, Link: "l", Reward: 0, MaxCompletions: 1},
		{Title: "t", Platform: constants.PlatformX, ActionType: constants.ActionLike, Link: "l", Reward: 1, MaxCompletions: -2},
	}

	for _, spec := range bad {
		_, err := f.tasks.CreateTask(context.Background(), creator.ID, spec)
		assert.Equal(t, 400, apperrors.StatusCode(err))
	}
	assert.Equal(t, int64(100), f.balance(t, creator.ID))
}

func TestTaskService_CreateTaskRejectsOverflowingBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broke := f.user(t, "broke", 0)
	funded := f.user(t, "funded", 100)

	cases := []struct {
		name    string
		creator *model.User
		reward  int64
	}{
		{"product wraps to zero", broke, 1 << 62},
		{"product wraps negative", funded, math.MaxInt64/4 + 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.balance(t, tc.creator.ID)

			var err error
			assert.NotPanics(t, func() {
				_, err = f.tasks.CreateTask(ctx, tc.creator.ID, xFollowTask(tc.reward, 4))
			})
			assert.Equal(t, 400, apperrors.StatusCode(err))

			created, err := f.tasks.ListCreatedTasks(ctx, tc.creator.ID)
			require.NoError(t, err)
			assert.Empty(t, created)
			assert.Equal(t, before, f.balance(t, tc.creator.ID))
		})
	}
}

func TestTaskService_CreateTaskBounds(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "alice", 0)
	_, err := f.repos.Users.AdjustBalance(context.Background(), creator.ID, math.MaxInt64)
	require.NoError(t, err)

	_, err = f.tasks.CreateTask(context.Background(), creator.ID, xFollowTask(constants.MaxTaskReward+1, 1))
	assert.Equal(t, 400, apperrors.StatusCode(err))

	_, err = f.tasks.CreateTask(context.Background(), creator.ID, xFollowTask(1, constants.MaxTaskCompletions+1))
	assert.Equal(t, 400, apperrors.StatusCode(err))

	task, err := f.tasks.CreateTask(context.Background(), creator.ID, xFollowTask(constants.MaxTaskReward, constants.MaxTaskCompletions))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64)-task.Budget(), f.balance(t, creator.ID))
}

func TestTaskService_ConcurrentCreateNeverOverspends(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "alice", 100)

	const attempts = 10
	var wg sync.WaitGroup
	wg.Add(attempts)
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := f.tasks.CreateTask(context.Background(), creator.ID, xFollowTask(10, 3))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, int64(10), f.balance(t, creator.ID))

	created, err := f.tasks.ListCreatedTasks(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Len(t, created, 3)
}

func TestTaskService_SetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	other := f.user(t, "bob", 0)

	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 1))
	require.NoError(t, err)

	_, err = f.tasks.SetStatus(ctx, other.ID, task.ID, constants.TaskStatusPaused)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.tasks.SetStatus(ctx, creator.ID, task.ID, constants.TaskStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)

	paused, err := f.tasks.SetStatus(ctx, creator.ID, task.ID, constants.TaskStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusPaused, paused.Status)

	active, err := f.tasks.ListActiveTasks(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.tasks.SetStatus(ctx, creator.ID, task.ID, constants.TaskStatusActive)
	require.NoError(t, err)

	require.NoError(t, f.tasks.UpdateStatus(ctx, task.ID, constants.TaskStatusCompleted))
	reloaded, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, reloaded.Status)
}

func TestTokenService_SingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 1))
	require.NoError(t, err)

	token := f.token(t, task.ID, worker.ID)

	require.NoError(t, f.tokens.Validate(ctx, task.ID, worker.ID, token))
	assert.ErrorIs(t, f.tokens.Validate(ctx, task.ID, worker.ID, token), apperrors.ErrInvalidToken)
}

func TestTokenService_ScopedToPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 1))
	require.NoError(t, err)

	token := f.token(t, task.ID, worker.ID)

	assert.ErrorIs(t, f.tokens.Validate(ctx, task.ID, creator.ID, token), apperrors.ErrInvalidToken)
	assert.ErrorIs(t, f.tokens.Validate(ctx, uuid.NewString(), worker.ID, token), apperrors.ErrInvalidToken)
	assert.ErrorIs(t, f.tokens.Validate(ctx, task.ID, worker.ID, ""), apperrors.ErrTokenRequired)
	require.NoError(t, f.tokens.Validate(ctx, task.ID, worker.ID, token))
}

func TestTokenService_ExpiredTokenFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 1))
	require.NoError(t, err)

	token := f.token(t, task.ID, worker.ID)

	f.tokens.now = func() time.Time { return time.Now().UTC().Add(6 * time.Minute) }
	assert.ErrorIs(t, f.tokens.Validate(ctx, task.ID, worker.ID, token), apperrors.ErrTokenExpired)

	purged, err := f.tokens.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestTokenService_NewestTokenWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 1))
	require.NoError(t, err)

	first := f.token(t, task.ID, worker.ID)
	second := f.token(t, task.ID, worker.ID)

	assert.ErrorIs(t, f.tokens.Validate(ctx, task.ID, worker.ID, first), apperrors.ErrInvalidToken)
	require.NoError(t, f.tokens.Validate(ctx, task.ID, worker.ID, second))

	_, err = f.tokens.Register(ctx, uuid.NewString(), worker.ID, "orphan")
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestCompletionService_SubmitRequiresVerifiedPlatform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 2))
	require.NoError(t, err)

	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: worker.ID, Token: f.token(t, task.ID, worker.ID)})
	var reqErr *apperrors.RequirementsNotMetError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, []string{"You must verify your x account first"}, reqErr.Reasons)

	_, err = f.verifications.Create(ctx, worker.ID, constants.PlatformX, "bob_on_x", "")
	require.NoError(t, err)

	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: worker.ID, Token: f.token(t, task.ID, worker.ID)})
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, []string{"Your x account verification is pending"}, reqErr.Reasons)

	reqs, err := f.completions.Requirements(ctx, worker.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, reqs.CanComplete)
}

func TestCompletionService_SubmitTokenFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	f.verify(t, worker.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 2))
	require.NoError(t, err)

	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: worker.ID})
	assert.ErrorIs(t, err, apperrors.ErrTokenRequired)

	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: worker.ID, Token: "forged"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	token := f.token(t, task.ID, worker.ID)
	f.tokens.now = func() time.Time { return time.Now().UTC().Add(10 * time.Minute) }
	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: worker.ID, Token: token})
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestCompletionService_SubmitEligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	f.verify(t, creator.ID, constants.PlatformX)
	f.verify(t, worker.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 2))
	require.NoError(t, err)

	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: creator.ID, Token: f.token(t, task.ID, creator.ID)})
	assert.ErrorIs(t, err, apperrors.ErrSelfCompletion)

	first := f.submit(t, task, worker.ID)
	assert.Equal(t, constants.CompletionPending, first.Status)

	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: worker.ID, Token: f.token(t, task.ID, worker.ID)})
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubmitted)

	_, err = f.completions.Reject(ctx, first.ID, creator.ID)
	require.NoError(t, err)
	second := f.submit(t, task, worker.ID)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = f.tasks.SetStatus(ctx, creator.ID, task.ID, constants.TaskStatusPaused)
	require.NoError(t, err)
	late := f.user(t, "carol", 0)
	f.verify(t, late.ID, constants.PlatformX)
	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: late.ID, Token: f.token(t, task.ID, late.ID)})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotActive)
}

func TestCompletionService_SubmitRejectsFullTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	late := f.user(t, "carol", 0)
	f.verify(t, worker.ID, constants.PlatformX)
	f.verify(t, late.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 1))
	require.NoError(t, err)

	completion := f.submit(t, task, worker.ID)
	_, err = f.completions.Approve(ctx, completion.ID, creator.ID)
	require.NoError(t, err)

	require.NoError(t, f.tasks.UpdateStatus(ctx, task.ID, constants.TaskStatusActive))
	_, err = f.completions.Submit(ctx, Submission{TaskID: task.ID, UserID: late.ID, Token: f.token(t, task.ID, late.ID)})
	assert.ErrorIs(t, err, apperrors.ErrCapacityReached)
}

func TestCompletionService_ApproveByNonCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	f.verify(t, worker.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 2))
	require.NoError(t, err)
	completion := f.submit(t, task, worker.ID)

	_, err = f.completions.Approve(ctx, completion.ID, worker.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = f.completions.Reject(ctx, completion.ID, worker.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	assert.Equal(t, int64(0), f.balance(t, worker.ID))
	reloaded, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.CompletedCount)

	stored, err := f.completions.GetCompletion(ctx, completion.ID, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.CompletionPending, stored.Status)

	_, err = f.completions.Approve(ctx, uuid.NewString(), creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrCompletionNotFound)
}

func TestCompletionService_ApprovalCappedAtMaxCompletions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	bob := f.user(t, "bob", 0)
	carol := f.user(t, "carol", 0)
	f.verify(t, bob.ID, constants.PlatformX)
	f.verify(t, carol.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 1))
	require.NoError(t, err)

	first := f.submit(t, task, bob.ID)
	second := f.submit(t, task, carol.ID)

	_, err = f.completions.Approve(ctx, first.ID, creator.ID)
	require.NoError(t, err)

	reloaded, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.CompletedCount)
	assert.Equal(t, constants.TaskStatusCompleted, reloaded.Status)

	_, err = f.completions.Approve(ctx, second.ID, creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrCapacityReached)

	stored, err := f.completions.GetCompletion(ctx, second.ID, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.CompletionPending, stored.Status)
	assert.Equal(t, int64(0), f.balance(t, carol.ID))

	reloaded, err = f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.CompletedCount)
}

func TestCompletionService_ApprovalCannotOverflowBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	rich := f.user(t, "rich", math.MaxInt64-5)
	f.verify(t, rich.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 2))
	require.NoError(t, err)
	completion := f.submit(t, task, rich.ID)

	_, err = f.completions.Approve(ctx, completion.ID, creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrBalanceOverflow)

	assert.Equal(t, int64(math.MaxInt64-5), f.balance(t, rich.ID))
	stored, err := f.completions.GetCompletion(ctx, completion.ID, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.CompletionPending, stored.Status)
	reloaded, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.CompletedCount)
}

func TestCompletionService_ReviewIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	f.verify(t, worker.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 3))
	require.NoError(t, err)
	completion := f.submit(t, task, worker.ID)

	_, err = f.completions.Approve(ctx, completion.ID, creator.ID)
	require.NoError(t, err)

	_, err = f.completions.Approve(ctx, completion.ID, creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrCompletionNotPending)
	_, err = f.completions.Reject(ctx, completion.ID, creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrCompletionNotPending)

	assert.Equal(t, int64(10), f.balance(t, worker.ID))
}

func TestCompletionService_ConcurrentApprovalsPayOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	f.verify(t, worker.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 5))
	require.NoError(t, err)
	completion := f.submit(t, task, worker.ID)

	const reviewers = 8
	var wg sync.WaitGroup
	wg.Add(reviewers)
	for i := 0; i < reviewers; i++ {
		go func() {
			defer wg.Done()
			_, _ = f.completions.Approve(ctx, completion.ID, creator.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), f.balance(t, worker.ID))
	reloaded, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.CompletedCount)
}

func TestCompletionService_ListingRespectsOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "alice", 100)
	worker := f.user(t, "bob", 0)
	f.verify(t, worker.ID, constants.PlatformX)
	task, err := f.tasks.CreateTask(ctx, creator.ID, xFollowTask(10, 3))
	require.NoError(t, err)
	f.submit(t, task, worker.ID)

	_, err = f.completions.ListTaskCompletions(ctx, task.ID, "", worker.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	pending, err := f.completions.ListTaskCompletions(ctx, task.ID, constants.CompletionPending, creator.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := f.completions.ListTaskCompletions(ctx, task.ID, constants.CompletionApproved, creator.ID)
	require.NoError(t, err)
	assert.Empty(t, approved)

	mine, err := f.completions.ListUserCompletions(ctx, worker.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	stranger := f.user(t, "mallory", 0)
	_, err = f.completions.GetCompletion(ctx, mine[0].ID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerificationService_Flow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "alice", 0)

	none, err := f.verifications.Lookup(ctx, user.ID, constants.PlatformTikTok)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = f.verifications.Create(ctx, user.ID, "myspace", "alice", "")
	assert.Equal(t, 400, apperrors.StatusCode(err))

	v, err := f.verifications.Create(ctx, user.ID, constants.PlatformTikTok, "alice_tt", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(v.VerificationPhrase, "promote.social-alice-"))
	assert.Len(t, v.VerificationPhrase, len("promote.social-alice-")+6)
	assert.False(t, v.Verified)

	verified, err := f.verifications.Verify(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.NotNil(t, verified.VerifiedAt)

	found, err := f.verifications.Lookup(ctx, user.ID, constants.PlatformTikTok)
	require.NoError(t, err)
	assert.True(t, found.Verified)

	_, err = f.verifications.Verify(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrVerificationNotFound)

	list, err := f.verifications.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type fixedVerifier struct {
	err error
}

func (v fixedVerifier) Verify(context.Context, *model.PlatformVerification) error {
	return v.err
}

func TestVerificationService_VerifierErrorClasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "alice", 0)

	rejecting := NewVerificationService(f.repos, fixedVerifier{err: verification.ErrNotVerified}, zap.NewNop())
	v, err := rejecting.Create(ctx, user.ID, constants.PlatformX, "alice_x", "")
	require.NoError(t, err)
	_, err = rejecting.Verify(ctx, v.ID)
	assert.Equal(t, 400, apperrors.StatusCode(err))

	breaker := verification.NewBreakerVerifier("x", fixedVerifier{err: errors.New("platform API timeout")}, 1, time.Minute)
	flaky := NewVerificationService(f.repos, breaker, zap.NewNop())

	_, err = flaky.Verify(ctx, v.ID)
	assert.Equal(t, 500, apperrors.StatusCode(err))
	assert.Equal(t, "internal server error", apperrors.Message(err))

	_, err = flaky.Verify(ctx, v.ID)
	assert.ErrorIs(t, err, apperrors.ErrVerifierUnavailable)
	assert.Equal(t, 503, apperrors.StatusCode(err))

	stored, err := f.verifications.Lookup(ctx, user.ID, constants.PlatformX)
	require.NoError(t, err)
	assert.False(t, stored.Verified)
}

func TestWorkflow_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", 100)
	bob := f.user(t, "bob", 0)
	carol := f.user(t, "carol", 0)
	f.verify(t, bob.ID, constants.PlatformX)
	f.verify(t, carol.ID, constants.PlatformX)

	task, err := f.tasks.CreateTask(ctx, alice.ID, xFollowTask(10, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(50), f.balance(t, alice.ID))
	assert.Equal(t, int64(0), task.CompletedCount)

	bobs := f.submit(t, task, bob.ID)
	assert.Equal(t, constants.CompletionPending, bobs.Status)

	approved, err := f.completions.Approve(ctx, bobs.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.CompletionApproved, approved.Status)
	assert.Equal(t, int64(10), f.balance(t, bob.ID))

	reloaded, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.CompletedCount)
	assert.Equal(t, constants.TaskStatusActive, reloaded.Status)

	carols := f.submit(t, task, carol.ID)
	rejected, err := f.completions.Reject(ctx, carols.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.CompletionRejected, rejected.Status)
	assert.Equal(t, int64(0), f.balance(t, carol.ID))

	reloaded, err = f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.CompletedCount)
	assert.Equal(t, int64(50), f.balance(t, alice.ID))
}
