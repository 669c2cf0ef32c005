package handler

import (
	"encoding/json"
	"net/http"

	"bytebank-api/common"
	"bytebank-api/model"
	"bytebank-api/service"

	"github.com/lib/pq"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Register godoc
// @Summary      Register a new operator
// @Description  Creates an operator user that can authenticate against the API.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration details"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Invalid request payload"
// @Failure      409  {object}  common.AppError "Email already registered"
// @Failure      500  {object}  common.AppError "Internal server error while creating the user"
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.service.Register(req)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return common.NewAppError(http.StatusConflict, "Email already registered", err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Authenticate an operator
// @Description  Verifies credentials and returns a bearer token for the account API.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login credentials"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Invalid request payload"
// @Failure      401  {object}  common.AppError "Invalid email or password"
// @Failure      500  {object}  common.AppError "Internal server error while logging in"
// @Router       /login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	token, err := h.service.Login(req)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"access_token": token})
	return nil
}
