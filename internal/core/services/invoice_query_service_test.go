package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/core/services"
	"github.com/soerenkp/ecosync/internal/models"
)

type InvoiceQueryServiceTestSuite struct {
	suite.Suite
	mockRepo *MockInvoiceRepository
	service  *services.InvoiceQueryService
}

func (suite *InvoiceQueryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInvoiceRepository)
	suite.service = services.NewInvoiceQueryService(suite.mockRepo)
}

func (suite *InvoiceQueryServiceTestSuite) TestListInvoices_PassesFilterThrough() {
	ctx := context.Background()
	filter := ports.InvoiceFilter{AgreementNumber: 111, PaymentStatus: models.PaymentOverdue, Limit: 20}
	rows := []models.Invoice{{InvoiceID: "i1", DocumentNumber: 1001}}
	suite.mockRepo.On("ListInvoices", ctx, filter).Return(rows, 57, nil).Once()

	invoices, total, err := suite.service.ListInvoices(ctx, filter)

	suite.Require().NoError(err)
	suite.Len(invoices, 1)
	suite.Equal(57, total, "total reflects all matches, not the page size")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceQueryServiceTestSuite) TestListInvoices_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("ListInvoices", ctx, ports.InvoiceFilter{}).Return(nil, 0, nil).Once()

	invoices, total, err := suite.service.ListInvoices(ctx, ports.InvoiceFilter{})

	suite.Require().NoError(err)
	suite.NotNil(invoices)
	suite.Empty(invoices)
	suite.Equal(0, total)
}

func (suite *InvoiceQueryServiceTestSuite) TestListInvoices_RepositoryFailure() {
	ctx := context.Background()
	suite.mockRepo.On("ListInvoices", ctx, ports.InvoiceFilter{}).Return(nil, 0, errors.New("db down")).Once()

	_, _, err := suite.service.ListInvoices(ctx, ports.InvoiceFilter{})

	suite.Require().Error(err)
}

func (suite *InvoiceQueryServiceTestSuite) TestGetInvoiceLines_EmptyNotError() {
	ctx := context.Background()
	suite.mockRepo.On("ListInvoiceLines", ctx, "i1").Return(nil, nil).Once()

	lines, err := suite.service.GetInvoiceLines(ctx, "i1")

	suite.Require().NoError(err)
	suite.NotNil(lines)
	suite.Empty(lines)
}

func TestInvoiceQueryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceQueryServiceTestSuite))
}
