// Package service implements the application's business operations on top of
// the store and session layers.
package service

import (
	"github.com/recordshopapp/recordshop-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()
