package router

import (
	"net/http"

	_ "bytebank-api/docs"
	"bytebank-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(userHandler *handler.UserHandler, accountHandler *handler.AccountHandler) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(userHandler.Login))
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Account routes, all behind authentication
	accountMux := http.NewServeMux()
	accountMux.Handle("POST /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.OpenAccount))
	accountMux.Handle("GET /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.ListAccounts))
	accountMux.Handle("GET /api/accounts/{number}/balance", handler.ErrorHandlingMiddleware(accountHandler.GetBalance))
	accountMux.Handle("POST /api/accounts/{number}/deposit", handler.ErrorHandlingMiddleware(accountHandler.Deposit))
	accountMux.Handle("POST /api/accounts/{number}/withdraw", handler.ErrorHandlingMiddleware(accountHandler.Withdraw))
	accountMux.Handle("POST /api/accounts/{number}/close", handler.ErrorHandlingMiddleware(accountHandler.CloseAccount))
	accountMux.Handle("POST /api/transfers", handler.ErrorHandlingMiddleware(accountHandler.Transfer))

	// Physical closure deletes the record and is restricted to admins.
	accountMux.Handle("DELETE /api/accounts/{number}",
		handler.AdminMiddleware(handler.ErrorHandlingMiddleware(accountHandler.DeleteAccount)))

	mux.Handle("/api/", handler.AuthMiddleware(accountMux))

	return mux
}
