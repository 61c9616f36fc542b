package validation

import (
	"github.com/employee-api/internal/domain"
)

// MinSalary - минимально допустимая зарплата
const MinSalary = 100.0

// EmployeeRules возвращает таблицу правил сотрудника в порядке полей
func EmployeeRules() []Rule {
	minSalary := MinSalary

	return []Rule{
		{
			Field:    "firstName",
			Value:    func(e *domain.Employee) any { return e.FirstName },
			Required: true,
			Messages: Messages{Required: "First name is required."},
		},
		{
			Field:    "lastName",
			Value:    func(e *domain.Employee) any { return e.LastName },
			Required: true,
			Messages: Messages{Required: "Last name is required."},
		},
		{
			Field:    "email",
			Value:    func(e *domain.Employee) any { return e.Email },
			Required: true,
			Format:   "email",
			Messages: Messages{
				Required: "Email is required.",
				Format:   "The email %q is not a valid email.",
			},
		},
		{
			Field: "hiredAt",
			Value: func(e *domain.Employee) any {
				if e.HiredAt == nil {
					return nil
				}
				return *e.HiredAt
			},
			Required:   true,
			Comparator: notPastTag,
			Messages: Messages{
				Required:   "Hired date is required.",
				Comparator: "The hired date cannot be in the past.",
			},
		},
		{
			Field: "salary",
			Value: func(e *domain.Employee) any {
				if e.Salary == nil {
					return nil
				}
				return *e.Salary
			},
			Required: true,
			Min:      &minSalary,
			Messages: Messages{
				Required: "Salary is required.",
				Min:      "Salary must be at least 100.",
			},
		},
	}
}
