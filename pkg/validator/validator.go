package validator

import (
	"github.com/go-playground/validator/v10"
)

const MaxRadiusMeters = 50000.0

var validate *validator.Validate

func init() {
	validate = validator.New()
	RegisterCustomValidations(validate)
}

func RegisterCustomValidations(v *validator.Validate) {
	v.RegisterValidation("lat", validateLat)
	v.RegisterValidation("lng", validateLng)
	v.RegisterValidation("radius_m", validateRadiusMeters)
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180 && lng <= 180
}

func validateRadiusMeters(fl validator.FieldLevel) bool {
	r := fl.Field().Float()
	return r > 0 && r <= MaxRadiusMeters
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
