package tournament

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/justinjudd/league/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return models.ValidClock(fl.Field().String())
	})
	return v
}

// fieldError converts validator failures into a single validation error naming every bad field
func fieldError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return models.Validationf("%v", err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()))
	}
	return models.Validationf("%s", strings.Join(msgs, "; "))
}

func checkDay(rules models.Rules, day int) error {
	err := validate.Var(day, fmt.Sprintf("gte=%d,lte=%d", rules.FirstDay, rules.LastDay))
	if err != nil {
		return models.Validationf("day %d is outside the league days %d-%d", day, rules.FirstDay, rules.LastDay)
	}
	return nil
}

func checkTime(hhmm string) error {
	if err := validate.Var(hhmm, "required,hhmm"); err != nil {
		return models.Validationf("time %q is not an HH:MM time", hhmm)
	}
	return nil
}

func checkGoals(goals ...int) error {
	for _, g := range goals {
		if g < 0 {
			return models.ErrInvalidGoals
		}
	}
	return nil
}

// ParseGoals reads a goal count typed by a user. Anything but a whole number of zero or more
// is rejected rather than coerced.
func ParseGoals(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidGoals, text)
	}
	return n, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Clock supplies the current time, replaceable in tests
type Clock func() time.Time
