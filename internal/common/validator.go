package common

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GenericEchoValidator plugs go-playground/validator into echo's Validator.
type GenericEchoValidator struct {
	Validator *validator.Validate
	once      sync.Once
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	gv.once.Do(func() {
		if gv.Validator == nil {
			gv.Validator = validator.New()
		}
	})
	if err := gv.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request parameters: %v", err))
	}
	return nil
}
