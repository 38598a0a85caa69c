package services_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/soerenkp/ecosync/internal/apperrors"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/core/services"
	syncsvc "github.com/soerenkp/ecosync/internal/core/services/sync"
	"github.com/soerenkp/ecosync/internal/models"
)

type AccountingQueryServiceTestSuite struct {
	suite.Suite
	mockAccounting *MockAccountingRepository
	mockAgreements *MockAgreementRepository
	mockClient     *MockRemoteClient
	service        *services.AccountingQueryService
}

func (suite *AccountingQueryServiceTestSuite) SetupTest() {
	suite.mockAccounting = new(MockAccountingRepository)
	suite.mockAgreements = new(MockAgreementRepository)
	suite.mockClient = new(MockRemoteClient)
	newClient := portssvc.RemoteClientFactory(func(grantToken string) portssvc.RemoteClient {
		return suite.mockClient
	})
	syncer := syncsvc.NewAccountingSyncService(suite.mockAccounting)
	suite.service = services.NewAccountingQueryService(suite.mockAccounting, suite.mockAgreements, newClient, syncer, time.Minute)
}

func (suite *AccountingQueryServiceTestSuite) TestListPeriods_UnknownYear() {
	ctx := context.Background()
	suite.mockAccounting.On("FindAccountingYear", ctx, 111, 2024).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListPeriods(ctx, 111, 2024)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccounting.AssertNotCalled(suite.T(), "ListAccountingPeriods", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountingQueryServiceTestSuite) TestListPeriods_KnownYearWithNoPeriods() {
	ctx := context.Background()
	suite.mockAccounting.On("FindAccountingYear", ctx, 111, 2024).Return(&models.AccountingYear{Year: 2024}, nil).Once()
	suite.mockAccounting.On("ListAccountingPeriods", ctx, 111, 2024).Return(nil, nil).Once()

	periods, err := suite.service.ListPeriods(ctx, 111, 2024)

	suite.Require().NoError(err)
	suite.NotNil(periods)
	suite.Empty(periods)
}

func (suite *AccountingQueryServiceTestSuite) TestListEntries_UnknownYear() {
	ctx := context.Background()
	suite.mockAccounting.On("FindAccountingYear", ctx, 111, 2024).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListEntries(ctx, 111, 2024, 3, 100, 0)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountingQueryServiceTestSuite) TestListTotals_StorageHitIsCached() {
	ctx := context.Background()
	totals := []models.AccountingTotal{{AgreementNumber: 111, Year: 2024, AccountNumber: 1010, IsYearTotal: true}}
	suite.mockAccounting.On("ListAccountingTotals", ctx, 111, 2024, true).Return(totals, nil).Once()

	first, err := suite.service.ListTotals(ctx, 111, 2024, true)
	suite.Require().NoError(err)
	suite.Len(first, 1)

	// Second read within the TTL must not touch storage again.
	second, err := suite.service.ListTotals(ctx, 111, 2024, true)
	suite.Require().NoError(err)
	suite.Len(second, 1)
	suite.mockAccounting.AssertExpectations(suite.T())
}

func (suite *AccountingQueryServiceTestSuite) TestListTotals_ScopesAreCachedSeparately() {
	ctx := context.Background()
	suite.mockAccounting.On("ListAccountingTotals", ctx, 111, 2024, true).Return([]models.AccountingTotal{{IsYearTotal: true}}, nil).Once()
	suite.mockAccounting.On("ListAccountingTotals", ctx, 111, 2024, false).Return([]models.AccountingTotal{{PeriodNumber: 1}, {PeriodNumber: 2}}, nil).Once()

	yearTotals, err := suite.service.ListTotals(ctx, 111, 2024, true)
	suite.Require().NoError(err)
	suite.Len(yearTotals, 1)

	periodTotals, err := suite.service.ListTotals(ctx, 111, 2024, false)
	suite.Require().NoError(err)
	suite.Len(periodTotals, 2)
	suite.mockAccounting.AssertExpectations(suite.T())
}

func (suite *AccountingQueryServiceTestSuite) TestListTotals_MissTriggersOnDemandSync() {
	ctx := context.Background()
	agreement := &models.Agreement{AgreementID: "a1", AgreementNumber: 111, GrantToken: "t"}
	yearRaw := json.RawMessage(`{"year": 2024}`)
	synced := []models.AccountingTotal{{AgreementNumber: 111, Year: 2024, AccountNumber: 1010, IsYearTotal: true}}

	// Storage miss, then the on-demand year sync, then the re-read hit.
	suite.mockAccounting.On("ListAccountingTotals", ctx, 111, 2024, true).Return([]models.AccountingTotal{}, nil).Once()
	suite.mockAgreements.On("FindAgreementByNumber", ctx, 111).Return(agreement, nil).Once()
	suite.mockClient.On("Get", ctx, "/accounting-years/2024", url.Values(nil)).Return(yearRaw, nil).Once()
	suite.mockAccounting.On("UpsertAccountingYear", ctx, mock.Anything).Return(nil).Once()
	suite.mockClient.On("FetchAllPages", ctx, "/accounting-years/2024/totals", url.Values{}).Return([]json.RawMessage{}, nil).Once()
	suite.mockClient.On("FetchAllPages", ctx, "/accounting-years/2024/periods", url.Values{}).Return([]json.RawMessage{}, nil).Once()
	suite.mockAccounting.On("ListAccountingTotals", ctx, 111, 2024, true).Return(synced, nil).Once()

	totals, err := suite.service.ListTotals(ctx, 111, 2024, true)

	suite.Require().NoError(err)
	suite.Len(totals, 1)
	suite.mockAccounting.AssertExpectations(suite.T())
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *AccountingQueryServiceTestSuite) TestListTotals_MissForUnknownAgreement() {
	ctx := context.Background()
	suite.mockAccounting.On("ListAccountingTotals", ctx, 111, 2024, true).Return([]models.AccountingTotal{}, nil).Once()
	suite.mockAgreements.On("FindAgreementByNumber", ctx, 111).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListTotals(ctx, 111, 2024, true)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountingQueryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountingQueryServiceTestSuite))
}
