// Command dealspot runs the DealSpot API and its maintenance tasks.
//
// @title                       DealSpot API
// @version                     1.0
// @description                 Deals and coupon marketplace: public browsing, contributor dashboard, seller portal and bulk exports.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
