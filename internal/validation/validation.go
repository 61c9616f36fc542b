// Package validation проверяет сущности по таблице правил.
//
// Каждое правило описывает одно поле: обязательность, формат, минимум и
// сравнение с датой. Сами проверки выполняет go-playground/validator через
// Var, поэтому таблица остаётся данными, а не тегами структуры.
package validation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/employee-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

// notPastTag - тег проверки "дата не раньше начала текущего дня"
const notPastTag = "notpast"

// Messages - тексты нарушений для правила.
// Format принимает проверяемое значение как единственный аргумент %q.
type Messages struct {
	Required   string
	Format     string
	Min        string
	Comparator string
}

// Rule - правило валидации одного поля
type Rule struct {
	Field string
	// Value возвращает nil, если поле не заполнено
	Value      func(e *domain.Employee) any
	Required   bool
	Format     string
	Min        *float64
	Comparator string
	Messages   Messages
}

// Validator проверяет сотрудника по таблице правил
type Validator struct {
	validate *validator.Validate
	rules    []Rule
	now      func() time.Time
}

// Option настраивает Validator
type Option func(*Validator)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithRules подменяет таблицу правил
func WithRules(rules []Rule) Option {
	return func(v *Validator) {
		v.rules = rules
	}
}

// New создаёт валидатор с правилами сотрудника
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		rules:    EmployeeRules(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := v.validate.RegisterValidation(notPastTag, v.notPast); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", notPastTag, err))
	}

	return v
}

// Validate возвращает *domain.ValidationError со всеми нарушениями или nil
func (v *Validator) Validate(e *domain.Employee) error {
	violations := v.Violations(e)
	if len(violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: violations}
}

// Violations проверяет все правила по порядку и не останавливается на первом нарушении
func (v *Validator) Violations(e *domain.Employee) []domain.Violation {
	var violations []domain.Violation

	for _, rule := range v.rules {
		value := rule.Value(e)

		if v.isBlank(value) {
			if rule.Required {
				violations = append(violations, domain.Violation{Property: rule.Field, Message: rule.Messages.Required})
			}
			// Остальные проверки пропускают пустые значения
			continue
		}

		if rule.Format != "" && v.validate.Var(value, rule.Format) != nil {
			violations = append(violations, domain.Violation{
				Property: rule.Field,
				Message:  fmt.Sprintf(rule.Messages.Format, fmt.Sprint(value)),
			})
		}

		if rule.Min != nil && v.validate.Var(value, "gte="+strconv.FormatFloat(*rule.Min, 'f', -1, 64)) != nil {
			violations = append(violations, domain.Violation{Property: rule.Field, Message: rule.Messages.Min})
		}

		if rule.Comparator != "" && v.validate.Var(value, rule.Comparator) != nil {
			violations = append(violations, domain.Violation{Property: rule.Field, Message: rule.Messages.Comparator})
		}
	}

	return violations
}

func (v *Validator) isBlank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return v.validate.Var(s, "required") != nil
	}
	return false
}

func (v *Validator) notPast(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.Before(StartOfDay(v.now()))
}

// StartOfDay возвращает полночь (UTC) дня, которому принадлежит t
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
