// cmd/main.go
package main

import (
	"bytebank-api/app"
)

// @title           ByteBank Account API
// @version         1.0
// @description     Account management API: open, deposit, withdraw, transfer and close bank accounts.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
