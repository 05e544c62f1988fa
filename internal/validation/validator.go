package validation

import (
	"reflect"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report fields by their query or JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("form")
		if tag == "" {
			tag = fld.Tag.Get("json")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// endDate must not fall before startDate
	v.RegisterStructValidation(ordersQueryStructValidation, OrdersQueryRequest{})

	return v
}

func ordersQueryStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(OrdersQueryRequest)
	if req.StartDate == "" || req.EndDate == "" {
		return
	}

	// malformed dates are reported by the datetime tag
	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return
	}
	end, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(req.EndDate, "endDate", "EndDate", "gtefield_start_date", req.StartDate)
	}
}
