package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/pkg/helpers"
)

// Validation rule patterns
var (
	// HHMMPattern accepts a 24-hour wall clock time such as 09:30
	HHMMPattern = `^([01]?\d|2[0-3]):[0-5]\d$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	HHMM *regexp.Regexp
}{
	HHMM: regexp.MustCompile(HHMMPattern),
}

var registerOnce sync.Once

// RegisterBindings installs the custom tags on gin's validator engine and
// reports fields by their json name. Safe to call more than once.
func RegisterBindings() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = Register(v)
	})
	return err
}

// Register adds the hhmm, weekday and outcome tags to v
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		return err
	}
	if err := v.RegisterValidation("weekday", validateWeekday); err != nil {
		return err
	}
	return v.RegisterValidation("outcome", validateOutcome)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func validateHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !CompiledPatterns.HHMM.MatchString(s) {
		return false
	}
	_, err := helpers.ToMinutes(s)
	return err == nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, err := models.ParseDay(fl.Field().String())
	return err == nil
}

func validateOutcome(fl validator.FieldLevel) bool {
	_, err := models.ParseOutcome(fl.Field().String())
	return err == nil
}
