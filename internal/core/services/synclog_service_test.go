package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/core/services"
	"github.com/soerenkp/ecosync/internal/models"
)

type SyncLogServiceTestSuite struct {
	suite.Suite
	mockRepo *MockSyncLogRepository
	service  *services.SyncLogService
}

func (suite *SyncLogServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSyncLogRepository)
	suite.service = services.NewSyncLogService(suite.mockRepo)
}

func (suite *SyncLogServiceTestSuite) TestListSyncLogs_ReturnsPageAndCursor() {
	ctx := context.Background()
	filter := ports.SyncLogFilter{Entity: "invoices", Limit: 10}
	logs := []models.SyncLog{{SyncLogID: "l1", Entity: "invoices", Status: models.SyncStatusSuccess}}
	suite.mockRepo.On("ListSyncLogs", ctx, filter).Return(logs, "next-token", nil).Once()

	page, nextToken, err := suite.service.ListSyncLogs(ctx, filter)

	suite.Require().NoError(err)
	suite.Len(page, 1)
	suite.Equal("next-token", nextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SyncLogServiceTestSuite) TestListSyncLogs_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("ListSyncLogs", ctx, ports.SyncLogFilter{}).Return(nil, "", nil).Once()

	page, nextToken, err := suite.service.ListSyncLogs(ctx, ports.SyncLogFilter{})

	suite.Require().NoError(err)
	suite.NotNil(page)
	suite.Empty(page)
	suite.Empty(nextToken)
}

func TestSyncLogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncLogServiceTestSuite))
}
