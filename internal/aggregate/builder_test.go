package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/wakala/dwh/internal/aggregate/mocks"
	"github.com/wakala/dwh/internal/domain"
)

type BuilderSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	facts    *mocks.MockFactSource
	deposits *mocks.MockDepositSource
	store    *mocks.MockStore
	builder  *Builder
	ctx      context.Context
	day      domain.Date
	now      time.Time
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.facts = mocks.NewMockFactSource(s.ctrl)
	s.deposits = mocks.NewMockDepositSource(s.ctrl)
	s.store = mocks.NewMockStore(s.ctrl)
	s.ctx = context.Background()
	s.day = domain.Date{Year: 2024, Month: time.November, Day: 1}
	s.now = time.Date(2024, 11, 2, 6, 0, 0, 0, time.UTC)

	b, err := NewBuilder(s.facts, s.deposits, s.store, 2, nil)
	s.Require().NoError(err)
	s.builder = b.WithClock(func() time.Time { return s.now })
}

func (s *BuilderSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BuilderSuite) expectDeposits(day domain.Date, clients, companies int64) {
	s.deposits.EXPECT().ActiveDepositTotal(gomock.Any(), domain.PartyClient, day).Return(decimal.NewFromInt(clients), nil)
	s.deposits.EXPECT().ActiveDepositTotal(gomock.Any(), domain.PartyCompany, day).Return(decimal.NewFromInt(companies), nil)
}

func snapshotOf(kind domain.FactKind, day domain.Date, each int64) *domain.Snapshot {
	amounts := make([]decimal.Decimal, kind.Arity())
	for i := range amounts {
		amounts[i] = decimal.NewFromInt(each)
	}
	fact, _ := domain.NewFact(kind, amounts)
	return &domain.Snapshot{Fact: fact, RecordedAt: day.Start().Add(time.Hour)}
}

func (s *BuilderSuite) TestNewBuilderRejectsNegativeWindow() {
	_, err := NewBuilder(s.facts, s.deposits, s.store, -1, nil)
	s.ErrorIs(err, ErrNegativeWindow)
}

func (s *BuilderSuite) TestBuildSumsFacts() {
	next := s.day.AddDays(1)
	s.store.EXPECT().Exists(gomock.Any(), s.day).Return(false, nil)
	s.expectDeposits(s.day, 500, 300)
	s.facts.EXPECT().LatestOnDay(gomock.Any(), domain.FactCapital, next).Return(snapshotOf(domain.FactCapital, next, 10), nil)
	s.facts.EXPECT().LatestOnDay(gomock.Any(), domain.FactAssets, next).Return(snapshotOf(domain.FactAssets, next, 100), nil)
	s.facts.EXPECT().LatestOnDay(gomock.Any(), domain.FactLiabilities, next).Return(snapshotOf(domain.FactLiabilities, next, 400), nil)

	var stored domain.DailyAggregate
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, agg domain.DailyAggregate) (bool, error) {
			stored = agg
			return true, nil
		})

	res, err := s.builder.Build(s.ctx, s.day)
	s.Require().NoError(err)
	s.True(res.Built)
	s.Equal(s.day, stored.Date)
	s.Equal("500", stored.ClientDeposits.Decimal.String())
	s.Equal("300", stored.CompanyDeposits.Decimal.String())
	s.Equal("30", stored.Capital.Decimal.String())
	s.Equal("700", stored.Assets.Decimal.String())
	s.Equal("2000", stored.Liabilities.Decimal.String())
	s.Equal(s.now, stored.RecordedAt)
	s.True(stored.Complete())
}

func (s *BuilderSuite) TestBuildRecordsMissingFactAsNull() {
	s.store.EXPECT().Exists(gomock.Any(), s.day).Return(false, nil)
	s.expectDeposits(s.day, 1, 1)
	next := s.day.AddDays(1)
	s.facts.EXPECT().LatestOnDay(gomock.Any(), domain.FactCapital, next).Return(snapshotOf(domain.FactCapital, next, 1), nil)
	s.facts.EXPECT().LatestOnDay(gomock.Any(), domain.FactAssets, next).Return(snapshotOf(domain.FactAssets, next, 1), nil)
	// Window of 2: the day after, the day, and two days back.
	for back := -1; back <= 2; back++ {
		s.facts.EXPECT().LatestOnDay(gomock.Any(), domain.FactLiabilities, s.day.AddDays(-back)).Return(nil, nil)
	}

	var stored domain.DailyAggregate
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, agg domain.DailyAggregate) (bool, error) {
			stored = agg
			return true, nil
		})

	res, err := s.builder.Build(s.ctx, s.day)
	s.Require().NoError(err)
	s.True(res.Built)
	s.False(stored.Liabilities.Valid)
	s.False(stored.Complete())
}

func (s *BuilderSuite) TestBuildSkipsExistingDate() {
	s.store.EXPECT().Exists(gomock.Any(), s.day).Return(true, nil)

	res, err := s.builder.Build(s.ctx, s.day)
	s.Require().NoError(err)
	s.False(res.Built)
	s.Nil(res.Aggregate)
}

func (s *BuilderSuite) TestBuildPropagatesStoreErrors() {
	boom := errors.New("disk full")
	s.store.EXPECT().Exists(gomock.Any(), s.day).Return(false, boom)

	_, err := s.builder.Build(s.ctx, s.day)
	s.ErrorIs(err, boom)
}

func (s *BuilderSuite) TestBuildRange() {
	s.Run("steps through the range inclusively", func() {
		end := s.day.AddDays(4)
		for _, d := range []domain.Date{s.day, s.day.AddDays(2), end} {
			s.store.EXPECT().Exists(gomock.Any(), d).Return(true, nil)
		}

		results, err := s.builder.BuildRange(s.ctx, s.day, end, 2)
		s.Require().NoError(err)
		s.Len(results, 3)
		s.Equal(end, results[2].Date)
	})

	s.Run("rejects a non-positive step", func() {
		_, err := s.builder.BuildRange(s.ctx, s.day, s.day, 0)
		s.Error(err)
	})

	s.Run("rejects an inverted range", func() {
		_, err := s.builder.BuildRange(s.ctx, s.day, s.day.AddDays(-1), 1)
		s.Error(err)
	})
}
