package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"bytebank-api/logger"
	"bytebank-api/model"
	"bytebank-api/service"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) Insert(account *model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *mockAccountRepo) FindActiveByNumber(number int64) (*model.Account, error) {
	args := m.Called(number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) ListActive() ([]*model.Account, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *mockAccountRepo) UpdateBalance(number int64, newBalance decimal.Decimal) error {
	args := m.Called(number, newBalance)
	return args.Error(0)
}

func (m *mockAccountRepo) Deactivate(number int64) error {
	args := m.Called(number)
	return args.Error(0)
}

func (m *mockAccountRepo) Delete(number int64) error {
	args := m.Called(number)
	return args.Error(0)
}

// nullCache satisfies service.ICacheClient without a running Redis.
type nullCache struct{}

func (nullCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	cmd.SetErr(redis.Nil)
	return cmd
}

func (nullCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	return redis.NewStatusCmd(ctx)
}

func (nullCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntCmd(ctx)
}

func newAccountHandler(repo *mockAccountRepo) *AccountHandler {
	return NewAccountHandler(service.NewAccountService(repo, nullCache{}))
}

func TestAccountHandler_OpenAccount(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("Insert", mock.MatchedBy(func(acc *model.Account) bool {
			return acc.Number == 1001 && acc.Balance.IsZero()
		})).Return(nil).Once()

		body := `{"number": 1001, "owner_name": "Ana Silva", "owner_tax_id": "12345678900", "owner_email": "ana@example.com", "initial_balance": "999.99"}`
		req := httptest.NewRequest("POST", "/api/accounts", strings.NewReader(body))
		rr := httptest.NewRecorder()

		appErr := h.OpenAccount(rr, req)

		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusCreated, rr.Code)

		var created model.Account
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.True(t, created.Balance.IsZero(), "response balance must be zero despite the initial_balance hint")
		repo.AssertExpectations(t)
	})

	t.Run("invalid payload", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		body := `{"number": 1001, "owner_name": "A"}`
		req := httptest.NewRequest("POST", "/api/accounts", strings.NewReader(body))
		rr := httptest.NewRecorder()

		appErr := h.OpenAccount(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		repo.AssertNotCalled(t, "Insert", mock.Anything)
	})
}

func TestAccountHandler_GetBalance(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("FindActiveByNumber", int64(1001)).Return(&model.Account{
			Number:  1001,
			Balance: decimal.RequireFromString("150.00"),
			Active:  true,
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/accounts/1001/balance", nil)
		req.SetPathValue("number", "1001")
		rr := httptest.NewRecorder()

		appErr := h.GetBalance(rr, req)

		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"number": 1001, "balance": "150.00"}`, rr.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("FindActiveByNumber", int64(9999)).Return(nil, sql.ErrNoRows).Once()

		req := httptest.NewRequest("GET", "/api/accounts/9999/balance", nil)
		req.SetPathValue("number", "9999")
		rr := httptest.NewRecorder()

		appErr := h.GetBalance(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("bad account number", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		req := httptest.NewRequest("GET", "/api/accounts/abc/balance", nil)
		req.SetPathValue("number", "abc")
		rr := httptest.NewRecorder()

		appErr := h.GetBalance(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})
}

func TestAccountHandler_Withdraw(t *testing.T) {
	t.Run("insufficient funds maps to 400", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("FindActiveByNumber", int64(1001)).Return(&model.Account{
			Number:  1001,
			Balance: decimal.RequireFromString("100.00"),
			Active:  true,
		}, nil).Once()

		req := httptest.NewRequest("POST", "/api/accounts/1001/withdraw", strings.NewReader(`{"amount": "200.00"}`))
		req.SetPathValue("number", "1001")
		rr := httptest.NewRecorder()

		appErr := h.Withdraw(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, service.ErrInsufficientFunds.Error(), appErr.Message)
		repo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("FindActiveByNumber", int64(1001)).Return(&model.Account{
			Number:  1001,
			Balance: decimal.RequireFromString("100.00"),
			Active:  true,
		}, nil).Once()
		repo.On("UpdateBalance", int64(1001), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("50.00"))
		})).Return(nil).Once()

		req := httptest.NewRequest("POST", "/api/accounts/1001/withdraw", strings.NewReader(`{"amount": "50.00"}`))
		req.SetPathValue("number", "1001")
		rr := httptest.NewRecorder()

		appErr := h.Withdraw(rr, req)

		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusOK, rr.Code)
		repo.AssertExpectations(t)
	})
}

func TestAccountHandler_CloseAccount(t *testing.T) {
	t.Run("nonzero balance maps to 409", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("FindActiveByNumber", int64(1001)).Return(&model.Account{
			Number:  1001,
			Balance: decimal.RequireFromString("10.00"),
			Active:  true,
		}, nil).Once()

		req := httptest.NewRequest("POST", "/api/accounts/1001/close", nil)
		req.SetPathValue("number", "1001")
		rr := httptest.NewRecorder()

		appErr := h.CloseAccount(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
		repo.AssertNotCalled(t, "Deactivate", mock.Anything)
	})

	t.Run("closes a zero-balance account", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("FindActiveByNumber", int64(1001)).Return(&model.Account{
			Number: 1001, Balance: decimal.Zero, Active: true,
		}, nil).Once()
		repo.On("Deactivate", int64(1001)).Return(nil).Once()

		req := httptest.NewRequest("POST", "/api/accounts/1001/close", nil)
		req.SetPathValue("number", "1001")
		rr := httptest.NewRecorder()

		appErr := h.CloseAccount(rr, req)

		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		repo.AssertExpectations(t)
	})
}

func TestAccountHandler_Transfer(t *testing.T) {
	t.Run("destination missing maps to 404", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h := newAccountHandler(repo)

		repo.On("FindActiveByNumber", int64(1001)).Return(&model.Account{
			Number:  1001,
			Balance: decimal.RequireFromString("100.00"),
			Active:  true,
		}, nil).Once()
		repo.On("UpdateBalance", int64(1001), mock.Anything).Return(nil).Once()
		repo.On("FindActiveByNumber", int64(9999)).Return(nil, sql.ErrNoRows).Once()

		body := `{"from_number": 1001, "to_number": 9999, "amount": "40.00"}`
		req := httptest.NewRequest("POST", "/api/transfers", strings.NewReader(body))
		rr := httptest.NewRecorder()

		appErr := h.Transfer(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
		// The withdrawal still committed; this pins the known defect.
		repo.AssertCalled(t, "UpdateBalance", int64(1001), mock.Anything)
	})
}
