package handler

import (
	"net/http"
	"reflect"

	"github.com/tiagostutz/demo-warehouse-software/internal/apierror"
	"github.com/tiagostutz/demo-warehouse-software/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the typed store/engine errors onto status codes.
// Storage failures get a generic body; the detail goes to the log only.
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *apperror.NotFoundError:
		c.JSON(http.StatusNotFound, apierror.New(e.Error()))
	case *apperror.ConstraintViolationError:
		c.JSON(http.StatusConflict, apierror.New(e.Error()))
	case *apperror.ReferentialIntegrityError:
		c.JSON(http.StatusUnprocessableEntity, apierror.New(e.Error()))
	case *apperror.ValidationError:
		c.JSON(http.StatusUnprocessableEntity, apierror.New(e.Error()))
	default:
		log.Error().
			Str("path", c.FullPath()).
			Err(err).
			Msg("storage failure")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
