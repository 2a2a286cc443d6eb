package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	testhelpers "github.com/commercelab/loyalty/internal/test"
	"github.com/commercelab/loyalty/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFacadeFixture(orders *testhelpers.OrderSourceStub, users *testhelpers.UserValidatorStub) (*LoyaltyFacade, *testhelpers.RedemptionRepositoryStub, *testhelpers.AccrualRepositoryStub) {
	ledger := &testhelpers.RedemptionRepositoryStub{}
	accrualRepo := &testhelpers.AccrualRepositoryStub{}
	qualifies := usecase.QualifyingStatusSet([]string{"DELIVERED", "SHIPPED"})

	balance := usecase.NewBalanceUseCase(orders, accrualRepo, ledger, qualifies, testLogger())
	redemptions := usecase.NewRedemptionUseCase(users, balance, ledger)
	accruals := usecase.NewAccrualUseCase(orders, users, accrualRepo, qualifies)

	return NewLoyaltyFacade(users, balance, redemptions, accruals), ledger, accrualRepo
}

func TestFacadeBalanceValidatesUserFirst(t *testing.T) {
	orders := &testhelpers.OrderSourceStub{Orders: []model.Order{
		{ID: "o1", UserID: "alice", Status: "DELIVERED", Points: 300},
	}}
	facade, _, _ := newFacadeFixture(orders, &testhelpers.UserValidatorStub{Known: []string{"alice"}})

	balance, err := facade.Balance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.Earned != 300 || balance.Available != 300 {
		t.Fatalf("unexpected balance: %+v", balance)
	}

	if _, err := facade.Balance(context.Background(), "ghost"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}

func TestFacadeBalanceFailsClosedOnValidatorError(t *testing.T) {
	users := &testhelpers.UserValidatorStub{
		ValidateFn: func(context.Context, string) (bool, error) {
			return false, domainErrors.ErrUpstreamUnavailable
		},
	}
	facade, _, _ := newFacadeFixture(&testhelpers.OrderSourceStub{}, users)

	if _, err := facade.Balance(context.Background(), "alice"); !errors.Is(err, domainErrors.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestFacadeRedeemAndHistoryRoundTrip(t *testing.T) {
	orders := &testhelpers.OrderSourceStub{Orders: []model.Order{
		{ID: "o1", UserID: "alice", Status: "DELIVERED", Points: 100},
	}}
	facade, ledger, _ := newFacadeFixture(orders, &testhelpers.UserValidatorStub{Known: []string{"alice"}})

	redemption, newBalance, err := facade.Redeem(context.Background(), "alice", 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redemption.Points != 40 || newBalance != 60 {
		t.Fatalf("unexpected result: %+v balance %d", redemption, newBalance)
	}
	if got := ledger.Count("alice"); got != 1 {
		t.Fatalf("expected one ledger entry, got %d", got)
	}

	history, err := facade.History(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].ID != redemption.ID {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestFacadeRecordAndRefreshAccruals(t *testing.T) {
	orders := &testhelpers.OrderSourceStub{Orders: []model.Order{
		{ID: "o1", UserID: "alice", Status: "DELIVERED", Points: 4},
	}}
	facade, _, accrualRepo := newFacadeFixture(orders, &testhelpers.UserValidatorStub{Known: []string{"alice"}})

	accrual, err := facade.RecordAccrual(context.Background(), "o1", "alice", 47)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accrual.Points != 4 {
		t.Fatalf("expected 4 points, got %d", accrual.Points)
	}

	users, err := facade.UsersWithAccruals(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || users[0] != "alice" {
		t.Fatalf("unexpected users: %v", users)
	}

	if err := facade.RefreshAccruals(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := accrualRepo.ListByUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 1 || stored[0].Status != model.AccrualStatusActive {
		t.Fatalf("unexpected stored accruals: %+v", stored)
	}
}
