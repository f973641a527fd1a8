package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Коды нарушений валидации. Стабильная часть контракта:
// по ним клиент понимает, какое именно правило нарушено.
const (
	CodeMissingTitle       = "MissingTitle"
	CodeTitleTooLong       = "TitleTooLong"
	CodeDescriptionTooLong = "DescriptionTooLong"
	CodeMissingDueDate     = "MissingDueDate"
	CodeInvalidDueDate     = "InvalidDueDate"
	CodeInvalidPriority    = "InvalidPriority"
)

// FieldViolation — одно нарушение на конкретном поле.
type FieldViolation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError собирает ВСЕ нарушения кандидата, а не первое попавшееся:
// клиент должен увидеть все проблемы формы за один запрос.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Code
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// validate — общий инстанс валидатора с кастомным тегом duedate.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// duedate: строка должна разбираться в календарную дату.
	// Пустую строку ловит required, сюда она не доходит.
	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDueDate(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate нормализует кандидата и проверяет правила модели данных.
//
// Возвращает nil либо *ValidationError со всеми нарушениями.
// Побочных эффектов нет, кроме нормализации полей самого кандидата
// (trim, приоритет по умолчанию).
func Validate(req *CreateTaskRequest) error {
	req.normalize()

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		// InvalidValidationError и прочая экзотика: наверх как есть.
		return err
	}

	verr := &ValidationError{}
	for _, fe := range ferrs {
		verr.Violations = append(verr.Violations, violationFor(fe))
	}
	return verr
}

// violationFor переводит ошибку валидатора в нарушение с нашим кодом.
// Тексты сообщений совпадают с теми, что видит пользователь.
func violationFor(fe validator.FieldError) FieldViolation {
	switch fe.StructField() {
	case "Title":
		if fe.Tag() == "required" {
			return FieldViolation{Field: "title", Code: CodeMissingTitle, Message: "Please provide a task title"}
		}
		return FieldViolation{Field: "title", Code: CodeTitleTooLong, Message: "Task title cannot exceed 100 characters"}
	case "Description":
		return FieldViolation{Field: "description", Code: CodeDescriptionTooLong, Message: "Task description cannot exceed 500 characters"}
	case "DueDate":
		if fe.Tag() == "required" {
			return FieldViolation{Field: "dueDate", Code: CodeMissingDueDate, Message: "Please provide a due date"}
		}
		return FieldViolation{Field: "dueDate", Code: CodeInvalidDueDate, Message: "Due date must be a valid date"}
	case "Priority":
		return FieldViolation{Field: "priority", Code: CodeInvalidPriority, Message: "Priority must be Low, Medium, or High"}
	}
	// Недостижимо, пока DTO и правила согласованы.
	return FieldViolation{
		Field:   fe.Field(),
		Code:    fe.Tag(),
		Message: fmt.Sprintf("field %s failed rule %s", fe.Field(), fe.Tag()),
	}
}
