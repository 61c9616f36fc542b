package service

import (
	"context"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/dto"
	"github.com/employee-api/internal/repository"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	Create(ctx context.Context, payload *dto.EmployeePayload) (*domain.Employee, error)
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Update(ctx context.Context, id int64, decode PayloadDecoder) (*domain.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// PayloadDecoder читает тело запроса; вызывается только для найденной записи
type PayloadDecoder func() (*dto.EmployeePayload, error)

// Payload оборачивает уже разобранное тело запроса
func Payload(payload *dto.EmployeePayload) PayloadDecoder {
	return func() (*dto.EmployeePayload, error) {
		return payload, nil
	}
}

// EntityValidator проверяет сущность перед сохранением
type EntityValidator interface {
	Validate(e *domain.Employee) error
}

type employeeService struct {
	empRepo   repository.EmployeeRepository
	validator EntityValidator
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, validator EntityValidator) EmployeeService {
	return &employeeService{
		empRepo:   empRepo,
		validator: validator,
	}
}

func (s *employeeService) Create(ctx context.Context, payload *dto.EmployeePayload) (*domain.Employee, error) {
	emp := &domain.Employee{}
	payload.ApplyTo(emp)

	if err := s.validator.Validate(emp); err != nil {
		return nil, err
	}

	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, err
	}

	return emp, nil
}

func (s *employeeService) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.empRepo.GetByID(ctx, id)
}

// Update накладывает переданные поля на сохранённую запись.
// Тело разбирается после поиска, поэтому для отсутствующей записи ответ 404
// даже при битом теле. Обязательность полей проверяется уже после слияния.
func (s *employeeService) Update(ctx context.Context, id int64, decode PayloadDecoder) (*domain.Employee, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := decode()
	if err != nil {
		return nil, err
	}

	payload.ApplyTo(emp)

	if err := s.validator.Validate(emp); err != nil {
		return nil, err
	}

	if err := s.empRepo.Update(ctx, emp); err != nil {
		return nil, err
	}

	return emp, nil
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	// Проверяем существование сотрудника
	if _, err := s.empRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.empRepo.Delete(ctx, id)
}
