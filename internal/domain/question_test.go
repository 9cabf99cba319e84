package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	studentA = Principal{ID: "student-a", Role: RoleStudent}
	tutorB   = Principal{ID: "tutor-b", Role: RoleTutor}
	tutorC   = Principal{ID: "tutor-c", Role: RoleTutor}
	t0       = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

func newTestQuestion(t *testing.T) *Question {
	t.Helper()

	q, err := NewQuestion("q-1", studentA, "X", "Y", "Z", t0)
	require.NoError(t, err)

	return q
}

func resolvedQuestion(t *testing.T) *Question {
	t.Helper()

	q := newTestQuestion(t)
	require.NoError(t, q.Assign(tutorB.ID, t0))
	require.NoError(t, q.Resolve(tutorB.ID, "c-resolve", "", t0))

	return q
}

func TestNewQuestion(t *testing.T) {
	testCases := []struct {
		name        string
		title       string
		description string
		topic       string
		expectedErr error
	}{
		{name: "Success", title: "X", description: "Y", topic: "Z"},
		{name: "Empty title", title: "", description: "Y", topic: "Z", expectedErr: apperrors.ErrValidation},
		{name: "Blank description", title: "X", description: "   ", topic: "Z", expectedErr: apperrors.ErrValidation},
		{name: "Empty topic", title: "X", description: "Y", topic: "", expectedErr: apperrors.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := NewQuestion("q-1", studentA, tc.title, tc.description, tc.topic, t0)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, q)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusUnassigned, q.Status)
			assert.Equal(t, studentA.ID, q.StudentID)
			assert.Empty(t, q.AssignedTo)
			assert.Equal(t, t0, q.CreatedAt)
			assert.Equal(t, t0, q.UpdatedAt)
		})
	}
}

func TestQuestion_Assign(t *testing.T) {
	t.Run("Claimable labels are equivalent", func(t *testing.T) {
		for _, status := range ClaimableStatuses {
			q := newTestQuestion(t)
			q.Status = status

			require.NoError(t, q.Assign(tutorB.ID, t0.Add(time.Minute)))
			assert.Equal(t, StatusAssigned, q.Status)
			assert.Equal(t, tutorB.ID, q.AssignedTo)
			assert.Equal(t, t0.Add(time.Minute), q.UpdatedAt)
		}
	})

	t.Run("Second assign conflicts and keeps the first claim", func(t *testing.T) {
		q := newTestQuestion(t)
		require.NoError(t, q.Assign(tutorB.ID, t0))

		err := q.Assign(tutorC.ID, t0)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, tutorB.ID, q.AssignedTo)
	})

	t.Run("Resolved question is not claimable", func(t *testing.T) {
		q := resolvedQuestion(t)
		assert.ErrorIs(t, q.Assign(tutorC.ID, t0), apperrors.ErrConflict)
	})
}

func TestQuestion_UpdateStatus(t *testing.T) {
	testCases := []struct {
		name        string
		caller      string
		status      Status
		resolution  string
		expectedErr error
	}{
		{name: "Assigned tutor resolves", caller: tutorB.ID, status: StatusResolved, resolution: "use the chain rule"},
		{name: "Assigned tutor keeps assigned", caller: tutorB.ID, status: StatusAssigned},
		{name: "Other tutor", caller: tutorC.ID, status: StatusResolved, expectedErr: apperrors.ErrForbidden},
		{name: "Owning student", caller: studentA.ID, status: StatusResolved, expectedErr: apperrors.ErrForbidden},
		{name: "Missing status", caller: tutorB.ID, status: "", expectedErr: apperrors.ErrValidation},
		{name: "Unknown status", caller: tutorB.ID, status: "archived", expectedErr: apperrors.ErrValidation},
		{name: "Back to open", caller: tutorB.ID, status: StatusOpen, expectedErr: apperrors.ErrConflict},
		{name: "Back to unassigned", caller: tutorB.ID, status: StatusUnassigned, expectedErr: apperrors.ErrConflict},
		{name: "Closed is reserved", caller: tutorB.ID, status: StatusClosed, expectedErr: apperrors.ErrConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := newTestQuestion(t)
			require.NoError(t, q.Assign(tutorB.ID, t0))

			err := q.UpdateStatus(tc.caller, tc.status, tc.resolution, t0.Add(time.Hour))

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Equal(t, StatusAssigned, q.Status)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.status, q.Status)
			assert.Equal(t, tc.resolution, q.Resolution)
			assert.Equal(t, t0.Add(time.Hour), q.UpdatedAt)
		})
	}

	t.Run("Unassigned question has no assigned tutor", func(t *testing.T) {
		q := newTestQuestion(t)
		assert.ErrorIs(t, q.UpdateStatus(tutorB.ID, StatusResolved, "", t0), apperrors.ErrForbidden)
	})

	t.Run("Empty resolution keeps the previous one", func(t *testing.T) {
		q := newTestQuestion(t)
		require.NoError(t, q.Assign(tutorB.ID, t0))
		require.NoError(t, q.UpdateStatus(tutorB.ID, StatusResolved, "first", t0))
		require.NoError(t, q.UpdateStatus(tutorB.ID, StatusResolved, "", t0))
		assert.Equal(t, "first", q.Resolution)
	})
}

func TestQuestion_Resolve(t *testing.T) {
	t.Run("Other tutor is rejected", func(t *testing.T) {
		q := newTestQuestion(t)
		require.NoError(t, q.Assign(tutorB.ID, t0))

		err := q.Resolve(tutorC.ID, "c-1", "done", t0)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.Equal(t, StatusAssigned, q.Status)
		assert.Empty(t, q.Comments)
	})

	t.Run("Comment becomes newest", func(t *testing.T) {
		q := newTestQuestion(t)
		require.NoError(t, q.Assign(tutorB.ID, t0))
		require.NoError(t, q.AddComment(studentA.ID, "c-0", "hello", t0))

		require.NoError(t, q.Resolve(tutorB.ID, "c-1", "done", t0))
		assert.Equal(t, StatusResolved, q.Status)
		require.Len(t, q.Comments, 2)
		assert.Equal(t, "done", q.Comments[0].Text)
		assert.Equal(t, tutorB.ID, q.Comments[0].UserID)
	})

	t.Run("Without comment", func(t *testing.T) {
		q := newTestQuestion(t)
		require.NoError(t, q.Assign(tutorB.ID, t0))
		require.NoError(t, q.Resolve(tutorB.ID, "c-1", "", t0))
		assert.Equal(t, StatusResolved, q.Status)
		assert.Empty(t, q.Comments)
	})
}

func TestQuestion_Reopen(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		q := resolvedQuestion(t)

		require.NoError(t, q.Reopen(studentA.ID, "c-2", "still confused", t0.Add(time.Hour)))
		assert.Equal(t, StatusAssigned, q.Status)
		assert.Equal(t, tutorB.ID, q.AssignedTo)
		require.NotEmpty(t, q.Comments)
		assert.Equal(t, "Doubt reopened. Reason: still confused", q.Comments[0].Text)
		assert.Equal(t, studentA.ID, q.Comments[0].UserID)
		require.Len(t, q.ReopenHistory, 1)
		assert.Equal(t, StatusResolved, q.ReopenHistory[0].PreviousStatus)
		assert.Equal(t, "still confused", q.ReopenHistory[0].Reason)
	})

	t.Run("Not resolved", func(t *testing.T) {
		q := newTestQuestion(t)
		require.NoError(t, q.Assign(tutorB.ID, t0))
		assert.ErrorIs(t, q.Reopen(studentA.ID, "c-2", "why", t0), apperrors.ErrConflict)
	})

	t.Run("Not the owner", func(t *testing.T) {
		q := resolvedQuestion(t)
		assert.ErrorIs(t, q.Reopen(tutorB.ID, "c-2", "why", t0), apperrors.ErrForbidden)
		assert.Equal(t, StatusResolved, q.Status)
	})

	t.Run("Missing reason", func(t *testing.T) {
		q := resolvedQuestion(t)
		assert.ErrorIs(t, q.Reopen(studentA.ID, "c-2", " ", t0), apperrors.ErrValidation)
		assert.Empty(t, q.ReopenHistory)
	})
}

func TestQuestion_Rate(t *testing.T) {
	testCases := []struct {
		name        string
		prepare     func(t *testing.T) *Question
		caller      string
		score       int
		expectedErr error
	}{
		{name: "Success", prepare: resolvedQuestion, caller: studentA.ID, score: 5},
		{name: "Lowest score", prepare: resolvedQuestion, caller: studentA.ID, score: 1},
		{name: "Score too high", prepare: resolvedQuestion, caller: studentA.ID, score: 6, expectedErr: apperrors.ErrValidation},
		{name: "Score zero", prepare: resolvedQuestion, caller: studentA.ID, score: 0, expectedErr: apperrors.ErrValidation},
		{name: "Not the owner", prepare: resolvedQuestion, caller: tutorB.ID, score: 4, expectedErr: apperrors.ErrForbidden},
		{name: "Not resolved", prepare: newTestQuestion, caller: studentA.ID, score: 4, expectedErr: apperrors.ErrConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.prepare(t)

			err := q.Rate(tc.caller, tc.score, "thanks", t0)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, q.Rating)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, q.Rating)
			assert.Equal(t, tc.score, q.Rating.Score)
			assert.Equal(t, "thanks", q.Rating.Feedback)
			assert.Equal(t, t0, q.Rating.RatedAt)
		})
	}

	t.Run("At most once", func(t *testing.T) {
		q := resolvedQuestion(t)
		require.NoError(t, q.Rate(studentA.ID, 5, "", t0))

		err := q.Rate(studentA.ID, 3, "", t0)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, 5, q.Rating.Score)
	})
}

func TestQuestion_CommentOrdering(t *testing.T) {
	q := newTestQuestion(t)

	const n = 5
	for i := 0; i < n; i++ {
		// Clock skew must not affect ordering: later inserts get earlier timestamps.
		require.NoError(t, q.AddComment(studentA.ID, fmt.Sprintf("c-%d", i), fmt.Sprintf("comment %d", i), t0.Add(-time.Duration(i)*time.Minute)))
	}

	require.Len(t, q.Comments, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("comment %d", n-1-i), q.Comments[i].Text)
	}

	for i := 0; i < n; i++ {
		require.NoError(t, q.AddReply(tutorB.ID, "c-2", fmt.Sprintf("r-%d", i), fmt.Sprintf("reply %d", i), t0))
	}

	idx := q.Comments.Find("c-2")
	require.GreaterOrEqual(t, idx, 0)
	require.Len(t, q.Comments[idx].Replies, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("reply %d", n-1-i), q.Comments[idx].Replies[i].Text)
	}
}

func TestQuestion_AddCommentAndReplyErrors(t *testing.T) {
	q := newTestQuestion(t)

	assert.ErrorIs(t, q.AddComment(studentA.ID, "c-1", "", t0), apperrors.ErrValidation)

	require.NoError(t, q.AddComment(studentA.ID, "c-1", "first", t0))

	err := q.AddReply(tutorB.ID, "missing", "r-1", "hi", t0)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var notFound *apperrors.CommentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.CommentID)

	assert.ErrorIs(t, q.AddReply(tutorB.ID, "c-1", "r-1", "  ", t0), apperrors.ErrValidation)
}

func TestQuestion_Accessible(t *testing.T) {
	policy := DefaultPolicy()
	other := Principal{ID: "student-x", Role: RoleStudent}
	admin := Principal{ID: "admin-1", Role: "admin"}

	q := newTestQuestion(t)
	assert.True(t, q.Accessible(studentA, policy))
	assert.True(t, q.Accessible(tutorC, policy), "any tutor may inspect a claimable doubt")
	assert.False(t, q.Accessible(other, policy))
	assert.False(t, q.Accessible(admin, policy))

	require.NoError(t, q.Assign(tutorB.ID, t0))
	assert.True(t, q.Accessible(tutorB, policy))
	assert.False(t, q.Accessible(tutorC, policy))
}

func TestQuestion_ClaimableInvariant(t *testing.T) {
	q := newTestQuestion(t)
	assertInvariant := func() {
		t.Helper()
		assert.Equal(t, q.Status.Claimable(), q.AssignedTo == "", "status=%s assigned_to=%q", q.Status, q.AssignedTo)
	}

	assertInvariant()
	require.NoError(t, q.Assign(tutorB.ID, t0))
	assertInvariant()
	_ = q.UpdateStatus(tutorB.ID, StatusOpen, "", t0)
	assertInvariant()
	require.NoError(t, q.Resolve(tutorB.ID, "c-1", "done", t0))
	assertInvariant()
	require.NoError(t, q.Reopen(studentA.ID, "c-2", "again", t0))
	assertInvariant()
}

func TestPolicy(t *testing.T) {
	policy := DefaultPolicy()

	assert.True(t, policy.Allows(RoleStudent, CapCreateQuestion))
	assert.False(t, policy.Allows(RoleStudent, CapClaimQuestion))
	assert.True(t, policy.Allows(RoleTutor, CapClaimQuestion))
	assert.True(t, policy.Can(tutorB, CapListAvailable))
	assert.False(t, policy.Allows("admin", CapListOwn))

	custom := NewPolicy(map[Role][]Capability{"mentor": {CapClaimQuestion, CapListAssigned}})
	assert.True(t, custom.Allows("mentor", CapClaimQuestion))
	assert.False(t, custom.Allows(RoleTutor, CapClaimQuestion))
}

func TestThread_ScanValue(t *testing.T) {
	in := Thread{{ID: "c-1", UserID: "u-1", Text: "hi", Replies: []Reply{{ID: "r-1", UserID: "u-2", Text: "yo", CreatedAt: t0}}, CreatedAt: t0}}

	raw, err := in.Value()
	require.NoError(t, err)

	var out Thread
	require.NoError(t, out.Scan([]byte(raw.(string))))
	assert.Equal(t, in, out)

	var empty Thread
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)

	nilValue, err := Thread(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilValue)

	assert.Error(t, out.Scan(42))
}
