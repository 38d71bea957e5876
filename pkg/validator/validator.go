// Package validator registers domain validations on gin's binding engine.
package validator

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Stranger261/hospital-er-api/internal/model"
)

// Register installs the custom binding tags. Call once at startup, before
// the router starts serving.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not validator/v10")
	}
	return v.RegisterValidation("arrivalmode", validArrivalMode)
}

func validArrivalMode(fl validator.FieldLevel) bool {
	switch model.ArrivalMode(fl.Field().String()) {
	case model.ArrivalModeWalkIn, model.ArrivalModeAmbulance, model.ArrivalModePolice, model.ArrivalModeTransfer:
		return true
	}
	return false
}
