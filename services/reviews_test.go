package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"prereview/metrics"
	"prereview/models"
	"prereview/providers/zenodo"
	"prereview/services/mocks"
	"prereview/types"
)

type fakeResolver struct {
	mu      sync.Mutex
	known   map[string]models.DoiData
	lookups []string
}

func (f *fakeResolver) Resolve(_ context.Context, doi types.Doi) (*models.DoiData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, doi.String())
	data, ok := f.known[doi.String()]
	if !ok {
		return nil, errors.New("unknown doi")
	}
	return &data, nil
}

func reviewRecord(id int64, preprint string) zenodo.Record {
	return zenodo.Record{
		Doi: types.MustDoi("10.5072/zenodo." + types.MustPositiveInt(id).String()),
		ID:  types.MustPositiveInt(id),
		Metadata: zenodo.RecordMetadata{
			Title: "Review title",
			RelatedIdentifiers: []zenodo.RelatedIdentifier{
				zenodo.DoiIdentifier(types.MustDoi(preprint), zenodo.RelationReviews),
			},
		},
	}
}

func preprintData(doi string) models.DoiData {
	return models.DoiData{Doi: types.MustDoi(doi), Title: "Preprint " + doi}
}

func TestRecentSkipsUnresolvablePreprints(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	resolver := &fakeResolver{known: map[string]models.DoiData{
		"10.1101/1": preprintData("10.1101/1"),
		"10.1101/3": preprintData("10.1101/3"),
	}}
	service := NewReviewService(records, resolver, "prereview-test-community", zap.NewNop())

	unrelated := reviewRecord(4, "10.1101/4")
	unrelated.Metadata.RelatedIdentifiers[0].Relation = zenodo.RelationIsVersionOf

	records.EXPECT().SearchCommunity(gomock.Any(), "prereview-test-community").Return([]zenodo.Record{
		reviewRecord(1, "10.1101/1"),
		reviewRecord(2, "10.1101/2"),
		reviewRecord(3, "10.1101/3"),
		unrelated,
	}, nil)

	recent := service.Recent(context.Background())
	require.Len(t, recent, 2)
	assert.Equal(t, int64(1), recent[0].Review.ID.Int64())
	assert.Equal(t, "Preprint 10.1101/1", recent[0].Preprint.Title)
	assert.Equal(t, int64(3), recent[1].Review.ID.Int64())
	assert.ElementsMatch(t, []string{"10.1101/1", "10.1101/2", "10.1101/3"}, resolver.lookups)
}

func TestRecentIsEmptyWhenSearchFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	service := NewReviewService(records, &fakeResolver{}, "c", zap.NewNop())

	records.EXPECT().SearchCommunity(gomock.Any(), "c").Return(nil, errors.New("down"))

	assert.Empty(t, service.Recent(context.Background()))
}

func TestPreprint(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	resolver := &fakeResolver{known: map[string]models.DoiData{"10.1101/1": preprintData("10.1101/1")}}
	service := NewReviewService(records, resolver, "c", zap.NewNop())

	doi := types.MustDoi("10.1101/1")
	records.EXPECT().SearchRelated(gomock.Any(), doi).Return([]zenodo.Record{reviewRecord(9, "10.1101/1")}, nil)

	page, err := service.Preprint(context.Background(), doi)
	require.NoError(t, err)
	assert.Equal(t, "Preprint 10.1101/1", page.Preprint.Title)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, int64(9), page.Reviews[0].ID.Int64())
}

func TestPreprintUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	service := NewReviewService(records, &fakeResolver{}, "c", zap.NewNop())

	records.EXPECT().SearchRelated(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := service.Preprint(context.Background(), types.MustDoi("10.1101/404"))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	resolver := &fakeResolver{known: map[string]models.DoiData{"10.1101/1": preprintData("10.1101/1")}}
	service := NewReviewService(records, resolver, "c", zap.NewNop())

	record := reviewRecord(5, "10.1101/1")
	records.EXPECT().GetRecord(gomock.Any(), types.MustPositiveInt(5)).Return(&record, nil)

	page, err := service.Review(context.Background(), types.MustPositiveInt(5))
	require.NoError(t, err)
	assert.Equal(t, record, page.Review)
	assert.Equal(t, "Preprint 10.1101/1", page.Preprint.Title)
}

func TestReviewOfNonReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	service := NewReviewService(records, &fakeResolver{}, "c", zap.NewNop())

	record := reviewRecord(5, "10.1101/1")
	record.Metadata.RelatedIdentifiers[0].Relation = zenodo.RelationIsVersionOf
	records.EXPECT().GetRecord(gomock.Any(), gomock.Any()).Return(&record, nil)

	_, err := service.Review(context.Background(), types.MustPositiveInt(5))
	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "resolve preprint", serr.Step)
	assert.ErrorIs(t, err, errNotAReview)
}

func TestArchiveProbe(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	m := metrics.Nop()
	probe := NewArchiveProbe(records, "c", time.Second, zap.NewNop(), m)

	gomock.InOrder(
		records.EXPECT().SearchCommunity(gomock.Any(), "c").Return(nil, nil),
		records.EXPECT().SearchCommunity(gomock.Any(), "c").Return(nil, errors.New("down")),
	)

	assert.True(t, probe.Check(context.Background()))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ArchiveUp))

	probe.Run()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ArchiveUp))
}

func TestFormatReference(t *testing.T) {
	published := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	data := models.DoiData{
		Doi:       types.MustDoi("10.1101/2021.01.01.000001"),
		Title:     "A preprint.",
		Authors:   []models.Author{{Name: "Jane Doe"}, {Name: "John Roe"}},
		Published: &published,
	}
	assert.Equal(t, "Jane Doe, John Roe (2021). A preprint. doi:10.1101/2021.01.01.000001", FormatReference(data))

	data.Authors = nil
	data.Published = nil
	data.Title = ""
	assert.Equal(t, "Unknown Authors (n.d.). Untitled. doi:10.1101/2021.01.01.000001", FormatReference(data))

	for i := 0; i < 8; i++ {
		data.Authors = append(data.Authors, models.Author{Name: "A"})
	}
	assert.Equal(t, "A, A, A, A, A, A, et al. (n.d.). Untitled. doi:10.1101/2021.01.01.000001", FormatReference(data))
}
