package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/soerenkp/ecosync/internal/apperrors"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/core/services"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/economic"
	"github.com/soerenkp/ecosync/internal/models"
)

type AgreementServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAgreementRepository
	mockClient *MockRemoteClient
	service    *services.AgreementService
}

func (suite *AgreementServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAgreementRepository)
	suite.mockClient = new(MockRemoteClient)
	newClient := portssvc.RemoteClientFactory(func(grantToken string) portssvc.RemoteClient {
		return suite.mockClient
	})
	suite.service = services.NewAgreementService(suite.mockRepo, newClient)
}

func selfInfo(number int, company string) economic.SelfInfo {
	info := economic.SelfInfo{AgreementNumber: number}
	info.Company.Name = company
	return info
}

func (suite *AgreementServiceTestSuite) TestCreateAgreement_Success() {
	ctx := context.Background()
	suite.mockClient.On("SelfInfo", ctx).Return(selfInfo(123456, "Acme ApS"), nil).Once()
	suite.mockRepo.On("FindAgreementByNumber", ctx, 123456).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAgreement", ctx, mock.MatchedBy(func(a models.Agreement) bool {
		return a.AgreementNumber == 123456 &&
			a.GrantToken == "valid-token" &&
			a.CompanyName == "Acme ApS" &&
			a.Name == "My Agreement" &&
			a.IsActive &&
			a.AgreementID != ""
	})).Return(nil).Once()

	agreement, err := suite.service.CreateAgreement(ctx, dto.CreateAgreementRequest{Name: "My Agreement", GrantToken: "valid-token"})

	suite.Require().NoError(err)
	suite.Equal(123456, agreement.AgreementNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AgreementServiceTestSuite) TestCreateAgreement_NameDefaultsToCompanyName() {
	ctx := context.Background()
	suite.mockClient.On("SelfInfo", ctx).Return(selfInfo(123456, "Acme ApS"), nil).Once()
	suite.mockRepo.On("FindAgreementByNumber", ctx, 123456).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAgreement", ctx, mock.MatchedBy(func(a models.Agreement) bool {
		return a.Name == "Acme ApS"
	})).Return(nil).Once()

	agreement, err := suite.service.CreateAgreement(ctx, dto.CreateAgreementRequest{GrantToken: "valid-token"})

	suite.Require().NoError(err)
	suite.Equal("Acme ApS", agreement.Name)
}

func (suite *AgreementServiceTestSuite) TestCreateAgreement_RejectedToken() {
	ctx := context.Background()
	remoteErr := &apperrors.RemoteAPIError{StatusCode: 401, Body: "Invalid grant token"}
	suite.mockClient.On("SelfInfo", ctx).Return(economic.SelfInfo{}, remoteErr).Once()

	_, err := suite.service.CreateAgreement(ctx, dto.CreateAgreementRequest{GrantToken: "bad-token"})

	suite.Require().Error(err)
	suite.True(apperrors.IsRemoteAPIError(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAgreement", mock.Anything, mock.Anything)
}

func (suite *AgreementServiceTestSuite) TestCreateAgreement_DuplicateNumber() {
	ctx := context.Background()
	suite.mockClient.On("SelfInfo", ctx).Return(selfInfo(123456, "Acme ApS"), nil).Once()
	existing := &models.Agreement{AgreementID: "existing", AgreementNumber: 123456}
	suite.mockRepo.On("FindAgreementByNumber", ctx, 123456).Return(existing, nil).Once()

	_, err := suite.service.CreateAgreement(ctx, dto.CreateAgreementRequest{GrantToken: "valid-token"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAgreement", mock.Anything, mock.Anything)
}

func (suite *AgreementServiceTestSuite) TestUpdateAgreement_AppliesProvidedFields() {
	ctx := context.Background()
	stored := &models.Agreement{AgreementID: "a1", Name: "Old", GrantToken: "old-token", IsActive: true}
	suite.mockRepo.On("FindAgreementByID", ctx, "a1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateAgreement", ctx, mock.MatchedBy(func(a models.Agreement) bool {
		return a.Name == "New" && a.GrantToken == "old-token" && !a.IsActive
	})).Return(nil).Once()

	name := "New"
	inactive := false
	updated, err := suite.service.UpdateAgreement(ctx, "a1", dto.UpdateAgreementRequest{Name: &name, IsActive: &inactive})

	suite.Require().NoError(err)
	suite.Equal("New", updated.Name)
	suite.False(updated.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AgreementServiceTestSuite) TestResolve_NoDivergenceNoWrite() {
	ctx := context.Background()
	agreement := &models.Agreement{AgreementID: "a1", AgreementNumber: 123456, CompanyName: "Acme ApS", GrantToken: "t"}
	suite.mockClient.On("SelfInfo", ctx).Return(selfInfo(123456, "Acme ApS"), nil).Once()

	number, err := suite.service.Resolve(ctx, agreement)

	suite.Require().NoError(err)
	suite.Equal(123456, number)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAgreement", mock.Anything, mock.Anything)
}

func (suite *AgreementServiceTestSuite) TestResolve_SelfHealsDivergedRecord() {
	ctx := context.Background()
	agreement := &models.Agreement{AgreementID: "a1", AgreementNumber: 0, CompanyName: "", GrantToken: "t"}
	suite.mockClient.On("SelfInfo", ctx).Return(selfInfo(123456, "Acme ApS"), nil).Once()
	suite.mockRepo.On("UpdateAgreement", ctx, mock.MatchedBy(func(a models.Agreement) bool {
		return a.AgreementNumber == 123456 && a.CompanyName == "Acme ApS"
	})).Return(nil).Once()

	number, err := suite.service.Resolve(ctx, agreement)

	suite.Require().NoError(err)
	suite.Equal(123456, number)
	suite.Equal(123456, agreement.AgreementNumber, "the in-memory record must be healed too")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AgreementServiceTestSuite) TestResolve_RemoteFailure() {
	ctx := context.Background()
	agreement := &models.Agreement{AgreementID: "a1", AgreementNumber: 123456, GrantToken: "t"}
	suite.mockClient.On("SelfInfo", ctx).Return(economic.SelfInfo{}, errors.New("remote down")).Once()

	_, err := suite.service.Resolve(ctx, agreement)

	suite.Require().Error(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAgreement", mock.Anything, mock.Anything)
}

func (suite *AgreementServiceTestSuite) TestListAgreements_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("ListAgreements", ctx, true).Return(nil, nil).Once()

	agreements, err := suite.service.ListAgreements(ctx, true)

	suite.Require().NoError(err)
	suite.NotNil(agreements)
	suite.Empty(agreements)
}

func TestAgreementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AgreementServiceTestSuite))
}
