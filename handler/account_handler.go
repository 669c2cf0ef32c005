package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bytebank-api/common"
	"bytebank-api/logger"
	"bytebank-api/model"
	"bytebank-api/service"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(s *service.AccountService) *AccountHandler {
	return &AccountHandler{service: s}
}

// mapAccountError maps the service's business errors to HTTP status codes.
// Anything unrecognized is an infrastructure failure and becomes a 500.
func mapAccountError(err error, fallback string) *common.AppError {
	switch err {
	case service.ErrAccountNotFound:
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case service.ErrInvalidAmount, service.ErrInsufficientFunds:
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	case service.ErrInactiveAccount, service.ErrNonZeroBalance:
		return common.NewAppError(http.StatusConflict, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

func accountNumberFromPath(r *http.Request) (int64, *common.AppError) {
	number, err := strconv.ParseInt(r.PathValue("number"), 10, 64)
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid account number in URL path", err)
	}
	return number, nil
}

// OpenAccount godoc
// @Summary      Open a new bank account
// @Description  Creates an account with a zero balance for the given owner. Any initial_balance in the payload is ignored.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account body model.OpenAccountRequest true "Details of the account to open"
// @Success      201  {object}  model.Account
// @Failure      400  {object}  common.AppError "Invalid request payload"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error while opening the account"
// @Router       /api/accounts [post]
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.OpenAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithField("account_number", req.Number).Info("Open account request received")

	account, err := h.service.OpenAccount(req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not open account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
	return nil
}

// ListAccounts godoc
// @Summary      List open accounts
// @Description  Returns every currently active account.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Account
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error while listing accounts"
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	accounts, err := h.service.ListOpenAccounts()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}

	if accounts == nil {
		accounts = []*model.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(accounts)
	return nil
}

// GetBalance godoc
// @Summary      Get account balance
// @Description  Returns the current balance of an active account.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        number path int true "Account number"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Invalid account number in URL path"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "No active account with this number"
// @Failure      500  {object}  common.AppError "Internal server error while reading the balance"
// @Router       /api/accounts/{number}/balance [get]
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) *common.AppError {
	number, appErr := accountNumberFromPath(r)
	if appErr != nil {
		return appErr
	}

	balance, err := h.service.GetBalance(number)
	if err != nil {
		return mapAccountError(err, "Could not retrieve balance")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"number":  number,
		"balance": balance,
	})
	return nil
}

// Deposit godoc
// @Summary      Deposit funds
// @Description  Adds a positive amount to an active account's balance.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        number path int true "Account number"
// @Param        deposit body model.AmountRequest true "Amount to deposit"
// @Success      200  {object}  model.Account
// @Failure      400  {object}  common.AppError "Invalid amount"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "No active account with this number"
// @Failure      409  {object}  common.AppError "Account is not active"
// @Failure      500  {object}  common.AppError "Internal server error while processing the deposit"
// @Router       /api/accounts/{number}/deposit [post]
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	number, appErr := accountNumberFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	account, err := h.service.Deposit(number, req.Amount)
	if err != nil {
		return mapAccountError(err, "Could not process deposit")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(account)
	return nil
}

// Withdraw godoc
// @Summary      Withdraw funds
// @Description  Removes a positive amount from an active account's balance, refusing overdrafts.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        number path int true "Account number"
// @Param        withdrawal body model.AmountRequest true "Amount to withdraw"
// @Success      200  {object}  model.Account
// @Failure      400  {object}  common.AppError "Invalid amount or insufficient funds"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "No active account with this number"
// @Failure      409  {object}  common.AppError "Account is not active"
// @Failure      500  {object}  common.AppError "Internal server error while processing the withdrawal"
// @Router       /api/accounts/{number}/withdraw [post]
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) *common.AppError {
	number, appErr := accountNumberFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	account, err := h.service.Withdraw(number, req.Amount)
	if err != nil {
		return mapAccountError(err, "Could not process withdrawal")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(account)
	return nil
}

// Transfer godoc
// @Summary      Transfer funds between accounts
// @Description  Withdraws from the origin account and deposits into the destination account. The two steps are not atomic.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Details of the transfer"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Invalid amount or insufficient funds"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "Origin or destination account not found"
// @Failure      409  {object}  common.AppError "One of the accounts is not active"
// @Failure      500  {object}  common.AppError "Internal server error while processing the transfer"
// @Router       /api/transfers [post]
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.service.Transfer(req.FromNumber, req.ToNumber, req.Amount); err != nil {
		return mapAccountError(err, "Could not process transfer")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"from_number": req.FromNumber,
		"to_number":   req.ToNumber,
		"amount":      req.Amount,
	})
	return nil
}

// CloseAccount godoc
// @Summary      Close an account logically
// @Description  Marks a zero-balance account as inactive while keeping its record.
// @Tags         accounts
// @Security     BearerAuth
// @Param        number path int true "Account number"
// @Success      204  "Account closed"
// @Failure      400  {object}  common.AppError "Invalid account number in URL path"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "No active account with this number"
// @Failure      409  {object}  common.AppError "Account still has a balance"
// @Failure      500  {object}  common.AppError "Internal server error while closing the account"
// @Router       /api/accounts/{number}/close [post]
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	number, appErr := accountNumberFromPath(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.CloseLogical(number); err != nil {
		return mapAccountError(err, "Could not close account")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DeleteAccount godoc
// @Summary      Close an account physically
// @Description  Permanently deletes a zero-balance account record. Requires the admin role.
// @Tags         accounts
// @Security     BearerAuth
// @Param        number path int true "Account number"
// @Success      204  "Account deleted"
// @Failure      400  {object}  common.AppError "Invalid account number in URL path"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: Admin privileges required"
// @Failure      404  {object}  common.AppError "No active account with this number"
// @Failure      409  {object}  common.AppError "Account still has a balance"
// @Failure      500  {object}  common.AppError "Internal server error while deleting the account"
// @Router       /api/accounts/{number} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	number, appErr := accountNumberFromPath(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.ClosePhysical(number); err != nil {
		return mapAccountError(err, "Could not delete account")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
