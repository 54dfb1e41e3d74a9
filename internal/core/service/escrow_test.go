package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/taskmarket/escrowpay/internal/core/domain"
	"github.com/taskmarket/escrowpay/internal/core/port"
	"github.com/taskmarket/escrowpay/internal/core/port/mock"
	"github.com/taskmarket/escrowpay/internal/core/service"
	"go.uber.org/zap"
)

type prepareMocks func(repo *mock.MockRepository, gateway *mock.MockGatewayClient)

const testCallbackURL = "https://market.example.com/api/webhooks/neero"

func newTestService(t *testing.T, repo *mock.MockRepository, gateway *mock.MockGatewayClient) *service.Service {
	t.Helper()
	logger, _ := zap.NewProduction()
	s, err := service.NewService(repo, gateway, testCallbackURL, logger)
	assert.NoError(t, err)
	return s
}

// expectUpdateOrder wires the repository mock so the update callback runs
// against the given order, the way the real repository applies it.
func expectUpdateOrder(repo *mock.MockRepository, order *domain.Order) {
	repo.EXPECT().UpdateOrder(gomock.Any(), order.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, fn port.UpdateOrderFn) (*domain.Order, error) {
			if err := fn(order); err != nil {
				return nil, err
			}
			return order, nil
		})
}

func activeOrder(price string) *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		BuyerID:     "buyer-1",
		ProviderID:  "provider-1",
		JobID:       "job-1",
		AgreedPrice: decimal.MustParse(price),
		Currency:    "NGN",
		Status:      domain.OrderStatusActive,
	}
}

func TestService_InitiateEscrowPayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name         string
		price        string
		actorID      string
		mock         prepareMocks
		expError     error
		expSecondPay bool
	}{
		{
			name:    "single milestone order",
			price:   "50000",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := activeOrder("50000")
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				gateway.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req *port.PaymentInitiateRequest) (*port.PaymentInitiateResponse, error) {
						assert.Zero(t, req.Amount.Cmp(decimal.MustParse("50000")))
						assert.Equal(t, "NGN", req.Currency)
						assert.Equal(t, testCallbackURL, req.CallbackURL)
						assert.Equal(t, 1, req.Metadata["milestoneNumber"])
						assert.Equal(t, 1, req.Metadata["totalMilestones"])
						return &port.PaymentInitiateResponse{
							TransactionID: "tx-1",
							PaymentURL:    "https://pay.neero.com/tx-1",
						}, nil
					})
				repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
						assert.Equal(t, domain.PaymentStatusPending, p.Status)
						assert.Zero(t, p.Commission.Cmp(decimal.MustParse("5000")))
						p.ID = "pay-1"
						return p, nil
					})
				expectUpdateOrder(repo, order)
			},
		},
		{
			name:         "split order requires second payment",
			price:        "500000",
			actorID:      "buyer-1",
			expSecondPay: true,
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := activeOrder("500000")
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				gateway.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req *port.PaymentInitiateRequest) (*port.PaymentInitiateResponse, error) {
						assert.Zero(t, req.Amount.Cmp(decimal.MustParse("250000")))
						assert.Equal(t, 2, req.Metadata["totalMilestones"])
						return &port.PaymentInitiateResponse{TransactionID: "tx-1", PaymentURL: "url"}, nil
					})
				repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
						p.ID = "pay-1"
						return p, nil
					})
				expectUpdateOrder(repo, order)
			},
		},
		{
			name:    "non-buyer rejected",
			price:   "50000",
			actorID: "provider-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(activeOrder("50000"), nil)
			},
			expError: domain.ErrNotOrderBuyer,
		},
		{
			name:    "already funded order rejected",
			price:   "50000",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := activeOrder("50000")
				order.EscrowFunded = true
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
			},
			expError: domain.ErrOrderAlreadyFunded,
		},
		{
			name:    "unknown order",
			price:   "50000",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrDataNotFound,
		},
		{
			name:    "gateway failure surfaces without records",
			price:   "50000",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(activeOrder("50000"), nil)
				gateway.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).
					Return(nil, &domain.GatewayError{Op: "initiate", StatusCode: 503, Message: "unavailable"})
			},
			expError: &domain.GatewayError{Op: "initiate", StatusCode: 503, Message: "unavailable"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)
			test.mock(repo, gateway)
			s := newTestService(t, repo, gateway)

			result, err := s.InitiateEscrowPayment(context.Background(), "order-1", test.actorID, "https://market.example.com/orders/order-1/payment")

			assert.Equal(t, test.expError, err)
			if test.expError != nil {
				assert.Nil(t, result)
				return
			}
			assert.Equal(t, "tx-1", result.TransactionID)
			assert.Equal(t, "pay-1", result.PaymentID)
			assert.Equal(t, test.expSecondPay, result.RequiresSecondPayment)
			assert.Equal(t, "tx-1", result.Milestones[0].TransactionID)
			assert.Equal(t, "pay-1", result.Milestones[0].PaymentID)
		})
	}
}

func TestService_InitiateEscrowPayment_ReusesPersistedPlan(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	repo := mock.NewMockRepository(mockCtrl)
	gateway := mock.NewMockGatewayClient(mockCtrl)

	// a previous attempt computed the plan but the first milestone stayed
	// pending; initiating again must not rebuild the plan
	order := activeOrder("500000")
	order.Metadata = &domain.OrderMetadata{
		Milestones: []domain.Milestone{
			{Number: 1, Amount: decimal.MustParse("250000"), Percentage: 50, Status: domain.MilestonePending},
			{Number: 2, Amount: decimal.MustParse("250000"), Percentage: 50, Status: domain.MilestonePending},
		},
	}

	repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
	gateway.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).
		Return(&port.PaymentInitiateResponse{TransactionID: "tx-2", PaymentURL: "url"}, nil)
	repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
			p.ID = "pay-2"
			return p, nil
		})
	expectUpdateOrder(repo, order)

	s := newTestService(t, repo, gateway)
	result, err := s.InitiateEscrowPayment(context.Background(), "order-1", "buyer-1", "return")

	assert.NoError(t, err)
	assert.Equal(t, "tx-2", result.Milestones[0].TransactionID)
	assert.Equal(t, 1, order.Metadata.CurrentMilestone)
}

func TestService_InitiateSecondMilestone(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	splitOrder := func(first domain.MilestoneStatus) *domain.Order {
		order := activeOrder("500000")
		order.Metadata = &domain.OrderMetadata{
			CurrentMilestone: 1,
			Milestones: []domain.Milestone{
				{Number: 1, Amount: decimal.MustParse("250000"), Percentage: 50, Status: first, PaymentID: "pay-1", TransactionID: "tx-1"},
				{Number: 2, Amount: decimal.MustParse("250000"), Percentage: 50, Status: domain.MilestonePending},
			},
		}
		return order
	}

	tests := []struct {
		name     string
		mock     prepareMocks
		expError error
	}{
		{
			name: "second milestone after first paid",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := splitOrder(domain.MilestonePaid)
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				gateway.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req *port.PaymentInitiateRequest) (*port.PaymentInitiateResponse, error) {
						assert.Equal(t, 2, req.Metadata["milestoneNumber"])
						return &port.PaymentInitiateResponse{TransactionID: "tx-2", PaymentURL: "url"}, nil
					})
				repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
						p.ID = "pay-2"
						return p, nil
					})
				expectUpdateOrder(repo, order)
			},
		},
		{
			name: "first milestone still pending",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(splitOrder(domain.MilestonePending), nil)
			},
			expError: domain.ErrFirstMilestoneUnpaid,
		},
		{
			name: "no milestone plan",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(activeOrder("50000"), nil)
			},
			expError: domain.ErrNoMilestonePlan,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)
			test.mock(repo, gateway)
			s := newTestService(t, repo, gateway)

			result, err := s.InitiateSecondMilestone(context.Background(), "order-1", "buyer-1", "return")

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, "tx-2", result.TransactionID)
				assert.Equal(t, "tx-2", result.Milestones[1].TransactionID)
			}
		})
	}
}

func TestService_InitiateSecondMilestone_KeepsDeliveredStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	repo := mock.NewMockRepository(mockCtrl)
	gateway := mock.NewMockGatewayClient(mockCtrl)

	// the provider delivered before the buyer funded milestone 2; funding it
	// must not move the order back to active
	order := activeOrder("500000")
	order.Status = domain.OrderStatusDelivered
	order.Metadata = &domain.OrderMetadata{
		CurrentMilestone: 1,
		Milestones: []domain.Milestone{
			{Number: 1, Amount: decimal.MustParse("250000"), Percentage: 50, Status: domain.MilestonePaid, PaymentID: "pay-1", TransactionID: "tx-1"},
			{Number: 2, Amount: decimal.MustParse("250000"), Percentage: 50, Status: domain.MilestonePending},
		},
	}

	repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
	gateway.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).
		Return(&port.PaymentInitiateResponse{TransactionID: "tx-2", PaymentURL: "url"}, nil)
	repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
			p.ID = "pay-2"
			return p, nil
		})
	expectUpdateOrder(repo, order)

	s := newTestService(t, repo, gateway)
	result, err := s.InitiateSecondMilestone(context.Background(), "order-1", "buyer-1", "return")

	assert.NoError(t, err)
	assert.Equal(t, "tx-2", result.TransactionID)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.Equal(t, 2, order.Metadata.CurrentMilestone)
}

func TestService_HandlePaymentCompleted(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	pendingPayment := func(tx string) *domain.Payment {
		return &domain.Payment{
			ID:         "pay-1",
			OrderID:    "order-1",
			Amount:     decimal.MustParse("250000"),
			Commission: decimal.MustParse("25000"),
			Status:     domain.PaymentStatusPending,
			Gateway:    domain.GatewayNeero,
			GatewayRef: tx,
		}
	}

	tests := []struct {
		name      string
		order     *domain.Order
		mock      prepareMocks
		expError  error
		expResult *domain.PaymentCompletion
		expFunded bool
	}{
		{
			name: "first of two milestones",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := activeOrder("500000")
				order.Metadata = &domain.OrderMetadata{
					CurrentMilestone: 1,
					Milestones: []domain.Milestone{
						{Number: 1, Amount: decimal.MustParse("250000"), Status: domain.MilestonePending, TransactionID: "tx-1"},
						{Number: 2, Amount: decimal.MustParse("250000"), Status: domain.MilestonePending},
					},
				}
				repo.EXPECT().ReadPaymentByGatewayRef(gomock.Any(), "tx-1").Return(pendingPayment("tx-1"), nil)
				repo.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
						assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
						return p, nil
					})
				expectUpdateOrder(repo, order)
			},
			expResult: &domain.PaymentCompletion{MilestoneCompleted: 1},
		},
		{
			name: "last milestone funds the escrow",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := activeOrder("500000")
				order.Metadata = &domain.OrderMetadata{
					CurrentMilestone: 2,
					Milestones: []domain.Milestone{
						{Number: 1, Amount: decimal.MustParse("250000"), Status: domain.MilestonePaid, TransactionID: "tx-0"},
						{Number: 2, Amount: decimal.MustParse("250000"), Status: domain.MilestonePending, TransactionID: "tx-1"},
					},
				}
				repo.EXPECT().ReadPaymentByGatewayRef(gomock.Any(), "tx-1").Return(pendingPayment("tx-1"), nil)
				repo.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) { return p, nil })
				expectUpdateOrder(repo, order)
			},
			expResult: &domain.PaymentCompletion{MilestoneCompleted: 2, AllMilestonesPaid: true},
		},
		{
			name: "replayed webhook is acknowledged without side effects",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				payment := pendingPayment("tx-1")
				payment.Status = domain.PaymentStatusCompleted
				repo.EXPECT().ReadPaymentByGatewayRef(gomock.Any(), "tx-1").Return(payment, nil)
			},
			expResult: &domain.PaymentCompletion{AlreadyProcessed: true},
		},
		{
			name: "order without plan marked funded",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := activeOrder("50000")
				repo.EXPECT().ReadPaymentByGatewayRef(gomock.Any(), "tx-1").Return(pendingPayment("tx-1"), nil)
				repo.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) { return p, nil })
				repo.EXPECT().UpdateOrder(gomock.Any(), "order-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, fn port.UpdateOrderFn) (*domain.Order, error) {
						if err := fn(order); err != nil {
							return nil, err
						}
						assert.True(t, order.EscrowFunded)
						return order, nil
					})
			},
			expResult: &domain.PaymentCompletion{},
		},
		{
			name: "unknown transaction",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadPaymentByGatewayRef(gomock.Any(), "tx-1").Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrDataNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)
			test.mock(repo, gateway)
			s := newTestService(t, repo, gateway)

			result, err := s.HandlePaymentCompleted(context.Background(), "tx-1")

			assert.Equal(t, test.expError, err)
			assert.Equal(t, test.expResult, result)
		})
	}
}

func TestService_HandlePaymentFailed(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	repo := mock.NewMockRepository(mockCtrl)
	gateway := mock.NewMockGatewayClient(mockCtrl)

	payment := &domain.Payment{
		ID:         "pay-1",
		OrderID:    "order-1",
		Status:     domain.PaymentStatusPending,
		GatewayRef: "tx-1",
	}
	repo.EXPECT().ReadPaymentByGatewayRef(gomock.Any(), "tx-1").Return(payment, nil)
	repo.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
			assert.Equal(t, domain.PaymentStatusFailed, p.Status)
			return p, nil
		})

	s := newTestService(t, repo, gateway)
	assert.NoError(t, s.HandlePaymentFailed(context.Background(), "tx-1"))
}

func TestService_ReleasePayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	deliveredOrder := func(statuses ...domain.MilestoneStatus) *domain.Order {
		order := activeOrder("500000")
		order.Status = domain.OrderStatusDelivered
		order.EscrowFunded = true
		if len(statuses) > 0 {
			order.Metadata = &domain.OrderMetadata{}
			for i, status := range statuses {
				order.Metadata.Milestones = append(order.Metadata.Milestones, domain.Milestone{
					Number:        i + 1,
					Amount:        decimal.MustParse("250000"),
					Percentage:    50,
					Status:        status,
					PaymentID:     "pay-" + string(rune('0'+i+1)),
					TransactionID: "tx-" + string(rune('0'+i+1)),
				})
			}
		}
		return order
	}

	completedPayment := func(id, tx string) *domain.Payment {
		return &domain.Payment{
			ID:         id,
			OrderID:    "order-1",
			Amount:     decimal.MustParse("250000"),
			Commission: decimal.MustParse("25000"),
			Status:     domain.PaymentStatusCompleted,
			GatewayRef: tx,
		}
	}

	tests := []struct {
		name            string
		actorID         string
		milestoneNumber int
		mock            prepareMocks
		expError        error
		expReleased     int
	}{
		{
			name:    "release all paid milestones",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := deliveredOrder(domain.MilestonePaid, domain.MilestonePaid)
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ReadPayment(gomock.Any(), "pay-1").Return(completedPayment("pay-1", "tx-1"), nil)
				repo.EXPECT().ReadPayment(gomock.Any(), "pay-2").Return(completedPayment("pay-2", "tx-2"), nil)
				gateway.EXPECT().ReleasePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req *port.PaymentReleaseRequest) (*port.TransferResult, error) {
						assert.Equal(t, "provider-1", req.RecipientID)
						assert.Zero(t, req.Amount.Cmp(decimal.MustParse("225000")))
						return &port.TransferResult{TransferID: "tr-" + req.TransactionID}, nil
					}).Times(2)
				expectUpdateOrder(repo, order)
			},
			expReleased:    2,
		},
		{
			name:            "release a single milestone",
			actorID:         "buyer-1",
			milestoneNumber: 1,
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := deliveredOrder(domain.MilestonePaid, domain.MilestonePaid)
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ReadPayment(gomock.Any(), "pay-1").Return(completedPayment("pay-1", "tx-1"), nil)
				gateway.EXPECT().ReleasePayment(gomock.Any(), gomock.Any()).
					Return(&port.TransferResult{TransferID: "tr-1"}, nil)
				expectUpdateOrder(repo, order)
			},
			expReleased:    1,
		},
		{
			name:    "pending milestones are skipped",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := deliveredOrder(domain.MilestonePaid, domain.MilestonePending)
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ReadPayment(gomock.Any(), "pay-1").Return(completedPayment("pay-1", "tx-1"), nil)
				gateway.EXPECT().ReleasePayment(gomock.Any(), gomock.Any()).
					Return(&port.TransferResult{TransferID: "tr-1"}, nil)
				expectUpdateOrder(repo, order)
			},
			expReleased:    1,
		},
		{
			name:    "everything already released is a no-op",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := deliveredOrder(domain.MilestoneReleased, domain.MilestoneReleased)
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				expectUpdateOrder(repo, order)
			},
			expReleased:    0,
		},
		{
			name:    "legacy order releases completed payments",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := deliveredOrder()
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ListPaymentsByOrderAndStatus(gomock.Any(), "order-1", domain.PaymentStatusCompleted).
					Return([]*domain.Payment{completedPayment("pay-1", "tx-1")}, nil)
				repo.EXPECT().ReadPayment(gomock.Any(), "pay-1").Return(completedPayment("pay-1", "tx-1"), nil)
				gateway.EXPECT().ReleasePayment(gomock.Any(), gomock.Any()).
					Return(&port.TransferResult{TransferID: "tr-1"}, nil)
				expectUpdateOrder(repo, order)
			},
			expReleased:    1,
		},
		{
			name:    "non-buyer rejected",
			actorID: "provider-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
					Return(deliveredOrder(domain.MilestonePaid), nil)
			},
			expError: domain.ErrNotOrderBuyer,
		},
		{
			name:    "undelivered order rejected",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := deliveredOrder(domain.MilestonePaid)
				order.Status = domain.OrderStatusActive
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
			},
			expError: domain.ErrOrderNotDelivered,
		},
		{
			name:    "unfunded escrow rejected",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := deliveredOrder(domain.MilestonePaid)
				order.EscrowFunded = false
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
			},
			expError: domain.ErrEscrowNotFunded,
		},
		{
			name:            "unknown milestone number",
			actorID:         "buyer-1",
			milestoneNumber: 3,
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
					Return(deliveredOrder(domain.MilestonePaid, domain.MilestonePaid), nil)
			},
			expError: domain.ErrMilestoneNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)
			test.mock(repo, gateway)
			s := newTestService(t, repo, gateway)

			released, err := s.ReleasePayment(context.Background(), "order-1", test.actorID, test.milestoneNumber)

			assert.Equal(t, test.expError, err)
			if test.expError != nil {
				return
			}
			assert.Len(t, released, test.expReleased)
			for _, r := range released {
				assert.Zero(t, r.Amount.Cmp(decimal.MustParse("225000")))
				assert.Zero(t, r.Commission.Cmp(decimal.MustParse("25000")))
				assert.NotEmpty(t, r.TransferID)
			}
		})
	}
}

func TestService_RefundPayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	cancelledOrder := func() *domain.Order {
		order := activeOrder("500000")
		order.Status = domain.OrderStatusCancelled
		order.EscrowFunded = true
		order.Metadata = &domain.OrderMetadata{
			Milestones: []domain.Milestone{
				{Number: 1, Amount: decimal.MustParse("250000"), Status: domain.MilestonePaid, PaymentID: "pay-1", TransactionID: "tx-1"},
				{Number: 2, Amount: decimal.MustParse("250000"), Status: domain.MilestonePaid, PaymentID: "pay-2", TransactionID: "tx-2"},
			},
		}
		return order
	}

	tests := []struct {
		name        string
		actorID     string
		mock        prepareMocks
		expError    error
		expRefunded int
	}{
		{
			name:    "refund all completed payments",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := cancelledOrder()
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ListPaymentsByOrderAndStatus(gomock.Any(), "order-1", domain.PaymentStatusCompleted).
					Return([]*domain.Payment{
						{ID: "pay-1", OrderID: "order-1", Amount: decimal.MustParse("250000"), Status: domain.PaymentStatusCompleted, GatewayRef: "tx-1"},
						{ID: "pay-2", OrderID: "order-1", Amount: decimal.MustParse("250000"), Status: domain.PaymentStatusCompleted, GatewayRef: "tx-2"},
					}, nil)
				gateway.EXPECT().RefundPayment(gomock.Any(), "tx-1", gomock.Nil()).
					Return(&port.TransferResult{TransferID: "rf-1"}, nil)
				gateway.EXPECT().RefundPayment(gomock.Any(), "tx-2", gomock.Nil()).
					Return(&port.TransferResult{TransferID: "rf-2"}, nil)
				repo.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
						assert.Equal(t, domain.PaymentStatusRefunded, p.Status)
						return p, nil
					}).Times(2)
				repo.EXPECT().UpdateOrder(gomock.Any(), "order-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, fn port.UpdateOrderFn) (*domain.Order, error) {
						if err := fn(order); err != nil {
							return nil, err
						}
						assert.False(t, order.EscrowFunded)
						assert.Equal(t, "buyer requested", order.Metadata.RefundReason)
						assert.NotNil(t, order.Metadata.RefundedAt)
						// plan statuses stay as they were
						assert.Equal(t, domain.MilestonePaid, order.Metadata.Milestones[0].Status)
						return order, nil
					})
			},
			expRefunded: 2,
		},
		{
			name:    "partially funded order refunds the paid milestone",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				// cancelled after milestone 1 was paid; milestone 2 never funded
				order := cancelledOrder()
				order.EscrowFunded = false
				order.Metadata.Milestones[1].Status = domain.MilestonePending
				order.Metadata.Milestones[1].PaymentID = ""
				order.Metadata.Milestones[1].TransactionID = ""
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ListPaymentsByOrderAndStatus(gomock.Any(), "order-1", domain.PaymentStatusCompleted).
					Return([]*domain.Payment{
						{ID: "pay-1", OrderID: "order-1", Amount: decimal.MustParse("250000"), Status: domain.PaymentStatusCompleted, GatewayRef: "tx-1"},
					}, nil)
				gateway.EXPECT().RefundPayment(gomock.Any(), "tx-1", gomock.Nil()).
					Return(&port.TransferResult{TransferID: "rf-1"}, nil)
				repo.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
						assert.Equal(t, domain.PaymentStatusRefunded, p.Status)
						return p, nil
					})
				expectUpdateOrder(repo, order)
			},
			expRefunded: 1,
		},
		{
			name:    "order not cancelled or disputed",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				order := cancelledOrder()
				order.Status = domain.OrderStatusActive
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
			},
			expError: domain.ErrOrderNotRefundable,
		},
		{
			name:    "outsider rejected",
			actorID: "other",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(cancelledOrder(), nil)
			},
			expError: domain.ErrNotOrderParticipant,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)
			test.mock(repo, gateway)
			s := newTestService(t, repo, gateway)

			refunded, err := s.RefundPayment(context.Background(), "order-1", test.actorID, "buyer requested")

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Len(t, refunded, test.expRefunded)
			}
		})
	}
}

func TestService_EscrowStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	order := activeOrder("50000")
	payments := []*domain.Payment{{ID: "pay-1", OrderID: "order-1"}}

	tests := []struct {
		name     string
		actorID  string
		mock     prepareMocks
		expError error
	}{
		{
			name:    "buyer can view",
			actorID: "buyer-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ListPaymentsByOrder(gomock.Any(), "order-1").Return(payments, nil)
			},
		},
		{
			name:    "provider can view",
			actorID: "provider-1",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
				repo.EXPECT().ListPaymentsByOrder(gomock.Any(), "order-1").Return(payments, nil)
			},
		},
		{
			name:    "outsider forbidden",
			actorID: "other",
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
			},
			expError: domain.ErrForbidden,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)
			test.mock(repo, gateway)
			s := newTestService(t, repo, gateway)

			status, err := s.EscrowStatus(context.Background(), "order-1", test.actorID)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, order, status.Order)
				assert.Equal(t, payments, status.Payments)
			}
		})
	}
}

func TestService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name     string
		order    *domain.Order
		mock     prepareMocks
		expError error
	}{
		{
			name: "valid order",
			order: &domain.Order{
				BuyerID:     "buyer-1",
				ProviderID:  "provider-1",
				JobID:       "job-1",
				AgreedPrice: decimal.MustParse("150000"),
				Currency:    "NGN",
			},
			mock: func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *domain.Order) (*domain.Order, error) {
						assert.Equal(t, domain.OrderStatusActive, o.Status)
						assert.False(t, o.EscrowFunded)
						assert.Nil(t, o.Metadata)
						o.ID = "order-1"
						return o, nil
					})
			},
		},
		{
			name: "unsupported currency",
			order: &domain.Order{
				BuyerID:     "buyer-1",
				AgreedPrice: decimal.MustParse("150000"),
				Currency:    "JPY",
			},
			mock:     func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {},
			expError: domain.ErrUnsupportedCurrency,
		},
		{
			name: "amount over limit",
			order: &domain.Order{
				BuyerID:     "buyer-1",
				AgreedPrice: decimal.MustParse("20000000"),
				Currency:    "USD",
			},
			mock:     func(repo *mock.MockRepository, gateway *mock.MockGatewayClient) {},
			expError: domain.ErrAmountTooLarge,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)
			test.mock(repo, gateway)
			s := newTestService(t, repo, gateway)

			result, err := s.CreateOrder(context.Background(), test.order)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, "order-1", result.ID)
			}
		})
	}
}

func TestService_UpdateOrderStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name     string
		from     domain.OrderStatus
		next     domain.OrderStatus
		actorID  string
		expError error
	}{
		{name: "provider delivers", from: domain.OrderStatusActive, next: domain.OrderStatusDelivered, actorID: "provider-1"},
		{name: "buyer cannot deliver", from: domain.OrderStatusActive, next: domain.OrderStatusDelivered, actorID: "buyer-1", expError: domain.ErrForbidden},
		{name: "buyer cancels", from: domain.OrderStatusActive, next: domain.OrderStatusCancelled, actorID: "buyer-1"},
		{name: "provider disputes delivered order", from: domain.OrderStatusDelivered, next: domain.OrderStatusDisputed, actorID: "provider-1"},
		{name: "outsider cannot cancel", from: domain.OrderStatusActive, next: domain.OrderStatusCancelled, actorID: "other", expError: domain.ErrNotOrderParticipant},
		{name: "completed is not settable directly", from: domain.OrderStatusDelivered, next: domain.OrderStatusCompleted, actorID: "buyer-1", expError: domain.ErrInvalidStatusTransition},
		{name: "terminal state stays terminal", from: domain.OrderStatusCancelled, next: domain.OrderStatusDisputed, actorID: "buyer-1", expError: domain.ErrInvalidStatusTransition},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			gateway := mock.NewMockGatewayClient(mockCtrl)

			order := activeOrder("50000")
			order.Status = test.from
			repo.EXPECT().UpdateOrder(gomock.Any(), "order-1", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, fn port.UpdateOrderFn) (*domain.Order, error) {
					if err := fn(order); err != nil {
						return nil, err
					}
					return order, nil
				})

			s := newTestService(t, repo, gateway)
			result, err := s.UpdateOrderStatus(context.Background(), "order-1", test.actorID, test.next)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, test.next, result.Status)
			}
		})
	}
}
