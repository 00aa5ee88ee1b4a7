package moderating

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	oemocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oeclient/mocks"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	repomocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/repository/mocks"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDateWindows(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		days  int
		want  [][2]string
	}{
		{
			name:  "single day",
			start: "2024-01-01",
			end:   "2024-01-01",
			days:  7,
			want:  [][2]string{{"2024-01-01", "2024-01-01"}},
		},
		{
			name:  "exact multiple",
			start: "2024-01-01",
			end:   "2024-01-14",
			days:  7,
			want:  [][2]string{{"2024-01-01", "2024-01-07"}, {"2024-01-08", "2024-01-14"}},
		},
		{
			name:  "partial tail",
			start: "2024-01-01",
			end:   "2024-01-10",
			days:  7,
			want:  [][2]string{{"2024-01-01", "2024-01-07"}, {"2024-01-08", "2024-01-10"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := dateWindows(day(tt.start), day(tt.end), tt.days)
			require.Len(t, windows, len(tt.want))
			for i, w := range windows {
				assert.Equal(t, tt.want[i][0], w.start.Format("2006-01-02"))
				assert.Equal(t, tt.want[i][1], w.end.Format("2006-01-02"))
			}
		})
	}
}

func TestBackfillFetchesEveryWindowWithAllFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	comments := repomocks.NewMockCommentRepository(ctrl)

	advertisers.EXPECT().ListAdvertiserIDs().Return([]int64{55}, nil)

	var ranges [][2]string
	client.EXPECT().Comments(gomock.Any(), int64(55), gomock.Any(), gomock.Any(), oedomain.CommentHideFilterAll).
		DoAndReturn(func(_ context.Context, _ int64, start, end, _ string) ([]oedomain.Comment, error) {
			ranges = append(ranges, [2]string{start, end})
			return negativeComments(2), nil
		}).Times(3)
	comments.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil).Times(3)

	service := NewService(testConfig(true), client, &stubStores{store: &repository.Store{
		Advertisers: advertisers,
		Comments:    comments,
	}})

	// Hide is off, so the scheduled-pass hide flag must not kick in.
	summary, err := service.BackfillComments(context.Background(), BackfillOptions{
		StartDate:  day("2024-01-01"),
		EndDate:    day("2024-01-20"),
		WindowDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{
		{"2024-01-01", "2024-01-07"},
		{"2024-01-08", "2024-01-14"},
		{"2024-01-15", "2024-01-20"},
	}, ranges)
	assert.Equal(t, 6, summary.CommentsUpserted)
	assert.Zero(t, summary.HideSuccess)
	assert.Zero(t, summary.HideFailed)
}

func TestBackfillHidesWhenRequested(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	comments := repomocks.NewMockCommentRepository(ctrl)
	actions := repomocks.NewMockCommentActionRepository(ctrl)

	advertisers.EXPECT().ListAdvertiserIDs().Return([]int64{55}, nil)
	client.EXPECT().Comments(gomock.Any(), int64(55), gomock.Any(), gomock.Any(), oedomain.CommentHideFilterAll).
		Return(negativeComments(3), nil)
	comments.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	client.EXPECT().HideComments(gomock.Any(), int64(55), []int64{1, 2, 3}).
		Return(&oedomain.HideResult{
			SuccessCommentIDs: []oedomain.FlexString{"1", "2", "3"},
			RequestID:         "req-9",
		}, nil)
	actions.EXPECT().UpsertOutcome(gomock.Any()).Return(nil).Times(3)
	comments.EXPECT().MarkHidden(int64(55), []int64{1, 2, 3}).Return(nil)

	// HideEnabled=false in config, but the explicit backfill flag wins.
	service := NewService(testConfig(false), client, &stubStores{store: &repository.Store{
		Advertisers:    advertisers,
		Comments:       comments,
		CommentActions: actions,
	}})

	summary, err := service.BackfillComments(context.Background(), BackfillOptions{
		StartDate: day("2024-01-01"),
		EndDate:   day("2024-01-02"),
		Hide:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.HideSuccess)
}

func TestBackfillSkipsAdvertiserWithoutPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	comments := repomocks.NewMockCommentRepository(ctrl)

	advertisers.EXPECT().ListAdvertiserIDs().Return([]int64{21, 22}, nil)

	denied := &oedomain.APIError{Code: oedomain.CodePermissionDenied, Message: "no permission"}
	// First window for 21 is denied, so its remaining windows are skipped.
	client.EXPECT().Comments(gomock.Any(), int64(21), gomock.Any(), gomock.Any(), oedomain.CommentHideFilterAll).
		Return(nil, denied)
	client.EXPECT().Comments(gomock.Any(), int64(22), gomock.Any(), gomock.Any(), oedomain.CommentHideFilterAll).
		Return(negativeComments(1), nil).Times(2)
	comments.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil).Times(2)

	service := NewService(testConfig(false), client, &stubStores{store: &repository.Store{
		Advertisers: advertisers,
		Comments:    comments,
	}})

	summary, err := service.BackfillComments(context.Background(), BackfillOptions{
		StartDate:  day("2024-01-01"),
		EndDate:    day("2024-01-10"),
		WindowDays: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SkippedNoPermission)
	assert.Equal(t, 2, summary.CommentsUpserted)
}

func TestBackfillRejectsInvertedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	service := NewService(testConfig(false), client, &stubStores{store: &repository.Store{}})

	_, err := service.BackfillComments(context.Background(), BackfillOptions{
		StartDate: day("2024-02-01"),
		EndDate:   day("2024-01-01"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")
}
