package moderating

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	oemocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oeclient/mocks"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	repomocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

type stubStores struct {
	store *repository.Store
}

func (s *stubStores) Store() *repository.Store { return s.store }

func (s *stubStores) InTransaction(_ context.Context, fn func(*repository.Store) error) error {
	return fn(s.store)
}

func testConfig(hideEnabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.CommentSync.LookbackHours = 48
	cfg.CommentSync.HideEnabled = hideEnabled
	return cfg
}

// negativeComments builds n visible negative comments with ids 1..n.
func negativeComments(n int) []oedomain.Comment {
	out := make([]oedomain.Comment, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, oedomain.Comment{
			CommentID:   oedomain.FlexString(fmt.Sprintf("%d", i)),
			Text:        fmt.Sprintf("comment %d", i),
			EmotionType: domain.EmotionNegative,
			HideStatus:  domain.HideStatusNotHidden,
		})
	}
	return out
}

func TestSyncCommentsPartitionsHideOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	comments := repomocks.NewMockCommentRepository(ctrl)
	actions := repomocks.NewMockCommentActionRepository(ctrl)

	advertisers.EXPECT().ListAdvertiserIDs().Return([]int64{77}, nil)
	client.EXPECT().Comments(gomock.Any(), int64(77), gomock.Any(), gomock.Any(), oedomain.CommentHideFilterNotHidden).
		Return(negativeComments(20), nil)
	comments.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	// Platform confirms 15 of the 20, the remaining 5 are failures.
	success := make([]oedomain.FlexString, 0, 15)
	for i := 1; i <= 15; i++ {
		success = append(success, oedomain.FlexString(fmt.Sprintf("%d", i)))
	}
	client.EXPECT().HideComments(gomock.Any(), int64(77), gomock.Any()).
		Return(&oedomain.HideResult{SuccessCommentIDs: success, RequestID: "req-1"}, nil)

	var outcomes []*domain.CommentAction
	actions.EXPECT().UpsertOutcome(gomock.Any()).DoAndReturn(
		func(a *domain.CommentAction) error {
			outcomes = append(outcomes, a)
			return nil
		}).Times(20)

	var hidden []int64
	comments.EXPECT().MarkHidden(int64(77), gomock.Any()).DoAndReturn(
		func(_ int64, ids []int64) error {
			hidden = ids
			return nil
		})

	service := NewService(testConfig(true), client, &stubStores{store: &repository.Store{
		Advertisers:    advertisers,
		Comments:       comments,
		CommentActions: actions,
	}})

	summary, err := service.SyncComments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, summary.CommentsUpserted)
	assert.Equal(t, 15, summary.HideSuccess)
	assert.Equal(t, 5, summary.HideFailed)
	assert.Len(t, hidden, 15)

	byStatus := map[string]int{}
	for _, o := range outcomes {
		byStatus[o.Status]++
		require.NotNil(t, o.RequestID)
		assert.Equal(t, "req-1", *o.RequestID)
	}
	assert.Equal(t, 15, byStatus[domain.ActionStatusSuccess])
	assert.Equal(t, 5, byStatus[domain.ActionStatusFailed])
}

func TestSyncCommentsSplitsHideBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	comments := repomocks.NewMockCommentRepository(ctrl)
	actions := repomocks.NewMockCommentActionRepository(ctrl)

	advertisers.EXPECT().ListAdvertiserIDs().Return([]int64{5}, nil)
	client.EXPECT().Comments(gomock.Any(), int64(5), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(negativeComments(25), nil)
	comments.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	var batchSizes []int
	client.EXPECT().HideComments(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, ids []int64) (*oedomain.HideResult, error) {
			batchSizes = append(batchSizes, len(ids))
			success := make([]oedomain.FlexString, 0, len(ids))
			for _, id := range ids {
				success = append(success, oedomain.FlexString(fmt.Sprintf("%d", id)))
			}
			return &oedomain.HideResult{SuccessCommentIDs: success}, nil
		}).Times(2)

	actions.EXPECT().UpsertOutcome(gomock.Any()).Return(nil).Times(25)
	comments.EXPECT().MarkHidden(int64(5), gomock.Any()).Return(nil).Times(2)

	service := NewService(testConfig(true), client, &stubStores{store: &repository.Store{
		Advertisers:    advertisers,
		Comments:       comments,
		CommentActions: actions,
	}})

	summary, err := service.SyncComments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{20, 5}, batchSizes)
	assert.Equal(t, 25, summary.HideSuccess)
}

func TestSyncCommentsBatchErrorMarksAllFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	comments := repomocks.NewMockCommentRepository(ctrl)
	actions := repomocks.NewMockCommentActionRepository(ctrl)

	advertisers.EXPECT().ListAdvertiserIDs().Return([]int64{9}, nil)
	client.EXPECT().Comments(gomock.Any(), int64(9), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(negativeComments(3), nil)
	comments.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	client.EXPECT().HideComments(gomock.Any(), int64(9), gomock.Any()).
		Return(nil, &oedomain.APIError{API: "hide", Code: 40001, Message: "invalid params"})

	var outcomes []*domain.CommentAction
	actions.EXPECT().UpsertOutcome(gomock.Any()).DoAndReturn(
		func(a *domain.CommentAction) error {
			outcomes = append(outcomes, a)
			return nil
		}).Times(3)
	// No MarkHidden when the whole batch fails.

	service := NewService(testConfig(true), client, &stubStores{store: &repository.Store{
		Advertisers:    advertisers,
		Comments:       comments,
		CommentActions: actions,
	}})

	summary, err := service.SyncComments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.HideFailed)
	assert.Zero(t, summary.HideSuccess)
	for _, o := range outcomes {
		assert.Equal(t, domain.ActionStatusFailed, o.Status)
		require.NotNil(t, o.ErrorCode)
		assert.Equal(t, 40001, *o.ErrorCode)
		require.NotNil(t, o.ErrorMessage)
	}
}

func TestSyncCommentsSkipsAdvertiserWithoutPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	comments := repomocks.NewMockCommentRepository(ctrl)

	advertisers.EXPECT().ListAdvertiserIDs().Return([]int64{1, 2}, nil)
	client.EXPECT().Comments(gomock.Any(), int64(1), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &oedomain.APIError{API: "comments", Code: oedomain.CodePermissionDenied})
	client.EXPECT().Comments(gomock.Any(), int64(2), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(negativeComments(1), nil)
	comments.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	service := NewService(testConfig(false), client, &stubStores{store: &repository.Store{
		Advertisers: advertisers,
		Comments:    comments,
	}})

	summary, err := service.SyncComments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SkippedNoPermission)
	assert.Equal(t, 1, summary.CommentsUpserted)
}

func TestMapCommentDropsNonNumericIDs(t *testing.T) {
	loc := time.UTC
	now := time.Now()

	assert.Nil(t, mapComment(1, oedomain.Comment{CommentID: "abc"}, loc, now))

	mapped := mapComment(1, oedomain.Comment{CommentID: "123.0", Content: "hello"}, loc, now)
	require.NotNil(t, mapped)
	assert.Equal(t, int64(123), mapped.CommentID)
	assert.Equal(t, "hello", mapped.CommentText)
}
