package repository

import (
	"context"
	"errors"
	"time"

	"github.com/employee-api/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// pgUniqueViolation - SQLSTATE нарушения уникального индекса
const pgUniqueViolation = "23505"

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

type employeeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// Option настраивает репозиторий
type Option func(*employeeRepository)

// WithClock подменяет источник времени для временных меток
func WithClock(now func() time.Time) Option {
	return func(r *employeeRepository) {
		r.now = now
	}
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB, opts ...Option) EmployeeRepository {
	r := &employeeRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create присваивает идентификатор и временные метки и сохраняет запись.
// Уникальность email проверяет индекс, а не предварительный запрос.
func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	now := r.timestamp()

	emp.ID = 0
	emp.CreatedAt = now
	emp.UpdatedAt = now
	normalize(emp)

	if err := r.db.WithContext(ctx).Create(emp).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).First(&emp, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	normalize(&emp)
	return &emp, nil
}

// Update сохраняет изменённые поля одним запросом и обновляет updated_at.
// created_at никогда не перезаписывается.
func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	updatedAt := r.timestamp()
	// updated_at строго возрастает даже при грубых часах
	if !updatedAt.After(emp.UpdatedAt) {
		updatedAt = emp.UpdatedAt.Add(time.Microsecond)
	}
	normalize(emp)

	result := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("id = ?", emp.ID).
		Updates(map[string]any{
			"first_name": emp.FirstName,
			"last_name":  emp.LastName,
			"email":      emp.Email,
			"hired_at":   emp.HiredAt,
			"salary":     emp.Salary,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}

	emp.UpdatedAt = updatedAt
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Employee{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// timestamp возвращает текущее время в том виде, в котором его вернёт БД
func (r *employeeRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// normalize приводит даты к UTC: колонки хранятся без часового пояса
func normalize(emp *domain.Employee) {
	if emp.HiredAt != nil {
		hiredAt := emp.HiredAt.UTC().Truncate(time.Microsecond)
		emp.HiredAt = &hiredAt
	}
	emp.CreatedAt = emp.CreatedAt.UTC()
	emp.UpdatedAt = emp.UpdatedAt.UTC()
}

// translateError переводит ошибки драйверов в доменные
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrEmployeeNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateEmail
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicateEmail
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.ErrDuplicateEmail
	}

	return err
}
