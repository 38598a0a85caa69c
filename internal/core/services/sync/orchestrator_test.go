package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/soerenkp/ecosync/internal/apperrors"
	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/models"
)

type OrchestratorTestSuite struct {
	suite.Suite
	mockAgreements *MockAgreementRepository
	mockInvoices   *MockInvoiceRepository
	mockAccounting *MockAccountingRepository
	mockAccounts   *MockAccountRepository
	mockProducts   *MockProductRepository
	mockSuppliers  *MockSupplierRepository
	mockCustomers  *MockCustomerRepository
	mockSyncLogs   *MockSyncLogRepository
	mockResolver   *MockResolver
	mockClient     *MockRemoteClient
	orchestrator   *Orchestrator
}

func (suite *OrchestratorTestSuite) SetupTest() {
	suite.mockAgreements = new(MockAgreementRepository)
	suite.mockInvoices = new(MockInvoiceRepository)
	suite.mockAccounting = new(MockAccountingRepository)
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockProducts = new(MockProductRepository)
	suite.mockSuppliers = new(MockSupplierRepository)
	suite.mockCustomers = new(MockCustomerRepository)
	suite.mockSyncLogs = new(MockSyncLogRepository)
	suite.mockResolver = new(MockResolver)
	suite.mockClient = new(MockRemoteClient)

	newClient := portssvc.RemoteClientFactory(func(grantToken string) portssvc.RemoteClient {
		return suite.mockClient
	})
	recorder := NewRecorder(suite.mockSyncLogs)
	engine := NewEngine(
		suite.mockResolver,
		newClient,
		NewInvoiceSyncService(suite.mockInvoices),
		NewAccountingSyncService(suite.mockAccounting),
		suite.mockAccounts,
		suite.mockProducts,
		suite.mockSuppliers,
		suite.mockCustomers,
		recorder,
	)
	suite.orchestrator = NewOrchestrator(suite.mockAgreements, engine, recorder)

	// Sync logs are best-effort; every test is free to produce any number.
	suite.mockSyncLogs.On("SaveSyncLog", mock.Anything, mock.Anything).Return(nil)
}

func testAgreement(id string, number int) models.Agreement {
	return models.Agreement{AgreementID: id, Name: "Agreement " + id, AgreementNumber: number, GrantToken: "token-" + id, IsActive: true}
}

// expectEmptyFamilies stubs every family endpoint to return no records for
// one full-agreement pass.
func (suite *OrchestratorTestSuite) expectEmptyFamilies() {
	empty := []json.RawMessage{}
	for _, path := range []string{"/accounts", "/customers", "/products", "/suppliers", "/accounting-years"} {
		suite.mockClient.On("FetchAllPages", mock.Anything, path, url.Values{}).Return(empty, nil)
	}
	for _, listing := range invoiceListings {
		suite.mockClient.On("FetchAllPages", mock.Anything, listing.path, url.Values{}).Return(empty, nil)
	}
}

func (suite *OrchestratorTestSuite) TestSyncFamily_UnknownFamily() {
	_, err := suite.orchestrator.SyncFamily(context.Background(), "unicorns")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAgreements.AssertNotCalled(suite.T(), "ListAgreements", mock.Anything, mock.Anything)
}

func (suite *OrchestratorTestSuite) TestSyncFamily_NoActiveAgreementsIsWarning() {
	ctx := context.Background()
	suite.mockAgreements.On("ListAgreements", ctx, true).Return([]models.Agreement{}, nil).Once()

	summary, err := suite.orchestrator.SyncFamily(ctx, FamilyAccounts)

	suite.Require().NoError(err)
	suite.Equal(StatusWarning, summary.Status)
	suite.Equal(0, summary.TotalCount)
	suite.NotNil(summary.Results)
	suite.Empty(summary.Results)
}

func (suite *OrchestratorTestSuite) TestSyncFamily_OneAgreementFailureIsIsolated() {
	ctx := context.Background()
	agreements := []models.Agreement{
		testAgreement("a1", 111),
		testAgreement("a2", 222),
		testAgreement("a3", 333),
	}
	suite.mockAgreements.On("ListAgreements", ctx, true).Return(agreements, nil).Once()

	suite.mockResolver.On("Resolve", ctx, mock.MatchedBy(func(a *models.Agreement) bool {
		return a.AgreementID == "a2"
	})).Return(0, errors.New("grant token revoked")).Once()
	suite.mockResolver.On("Resolve", ctx, mock.MatchedBy(func(a *models.Agreement) bool {
		return a.AgreementID != "a2"
	})).Return(111, nil).Twice()

	accountRaw := json.RawMessage(`{"accountNumber": 1010, "name": "Bank"}`)
	suite.mockClient.On("FetchAllPages", ctx, "/accounts", url.Values{}).Return([]json.RawMessage{accountRaw}, nil).Twice()
	suite.mockAccounts.On("BatchUpsertAccounts", ctx, mock.Anything).Return(ports.UpsertResult{Inserted: 1}, nil).Twice()

	summary, err := suite.orchestrator.SyncFamily(ctx, FamilyAccounts)

	suite.Require().NoError(err, "a per-agreement failure must not fail the summary call")
	suite.Equal(StatusPartial, summary.Status)
	suite.Equal(2, summary.TotalCount)
	suite.Require().Len(summary.Results, 3)
	suite.Equal(StatusSuccess, summary.Results[0].Status)
	suite.Equal(StatusError, summary.Results[1].Status)
	suite.Contains(summary.Results[1].Error, "grant token revoked")
	suite.Equal(StatusSuccess, summary.Results[2].Status)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *OrchestratorTestSuite) TestSyncFamily_AllAgreementsFailing() {
	ctx := context.Background()
	suite.mockAgreements.On("ListAgreements", ctx, true).Return([]models.Agreement{testAgreement("a1", 111)}, nil).Once()
	suite.mockResolver.On("Resolve", ctx, mock.Anything).Return(0, errors.New("remote down")).Once()

	summary, err := suite.orchestrator.SyncFamily(ctx, FamilyCustomers)

	suite.Require().NoError(err)
	suite.Equal(StatusError, summary.Status)
	suite.Equal(0, summary.TotalCount)
}

func (suite *OrchestratorTestSuite) TestSyncEverything_RunsEveryFamily() {
	ctx := context.Background()
	suite.mockAgreements.On("ListAgreements", ctx, true).Return([]models.Agreement{testAgreement("a1", 111)}, nil).Once()
	suite.mockResolver.On("Resolve", ctx, mock.Anything).Return(111, nil).Times(6)
	suite.expectEmptyFamilies()

	summary, err := suite.orchestrator.SyncEverything(ctx)

	suite.Require().NoError(err)
	suite.Equal(StatusSuccess, summary.Status)
	suite.Equal("all", summary.Entity)
	suite.Require().Len(summary.Results, 1)
	suite.Equal(StatusSuccess, summary.Results[0].Status)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *OrchestratorTestSuite) TestSyncEverything_FamilyFailureDoesNotStopLaterFamilies() {
	ctx := context.Background()
	suite.mockAgreements.On("ListAgreements", ctx, true).Return([]models.Agreement{testAgreement("a1", 111)}, nil).Once()
	suite.mockResolver.On("Resolve", ctx, mock.Anything).Return(111, nil).Times(6)

	empty := []json.RawMessage{}
	suite.mockClient.On("FetchAllPages", ctx, "/accounts", url.Values{}).Return(nil, errors.New("remote down")).Once()
	for _, path := range []string{"/customers", "/products", "/suppliers", "/accounting-years"} {
		suite.mockClient.On("FetchAllPages", ctx, path, url.Values{}).Return(empty, nil)
	}
	for _, listing := range invoiceListings {
		suite.mockClient.On("FetchAllPages", ctx, listing.path, url.Values{}).Return(empty, nil)
	}

	summary, err := suite.orchestrator.SyncEverything(ctx)

	suite.Require().NoError(err)
	suite.Equal(StatusError, summary.Status)
	suite.Require().Len(summary.Results, 1)
	suite.Contains(summary.Results[0].Error, "accounts")
	// Later families still ran despite the accounts failure.
	suite.mockClient.AssertCalled(suite.T(), "FetchAllPages", ctx, "/customers", url.Values{})
	suite.mockClient.AssertCalled(suite.T(), "FetchAllPages", ctx, "/accounting-years", url.Values{})
}

func (suite *OrchestratorTestSuite) TestSyncAgreement_UnknownID() {
	ctx := context.Background()
	suite.mockAgreements.On("FindAgreementByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.orchestrator.SyncAgreement(ctx, "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *OrchestratorTestSuite) TestSyncAgreement_RunsInactiveAgreement() {
	ctx := context.Background()
	agreement := testAgreement("a1", 111)
	agreement.IsActive = false
	suite.mockAgreements.On("FindAgreementByID", ctx, "a1").Return(&agreement, nil).Once()
	suite.mockResolver.On("Resolve", ctx, mock.Anything).Return(111, nil).Times(6)
	suite.expectEmptyFamilies()

	summary, err := suite.orchestrator.SyncAgreement(ctx, "a1")

	suite.Require().NoError(err)
	suite.Equal(StatusSuccess, summary.Status)
	suite.Require().Len(summary.Results, 1)
	suite.Equal("a1", summary.Results[0].AgreementID)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
