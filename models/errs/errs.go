package errs

import "github.com/pkg/errors"

// Базовые ошибки доменной логики. Обработчики оборачивают их через
// errors.Wrap, контроллеры сопоставляют с http статусами через errors.Is.
var (
	// ErrNotFound — документ/шаг/пользователь не найден.
	ErrNotFound = errors.New("запись не найдена")
	// ErrForbidden — у пользователя нет роли для действия.
	ErrForbidden = errors.New("операция недоступна")
	// ErrInvalidStateTransition — нарушено условие перехода
	// (повторное решение, нарушение очерёдности, resubmit вне Revise).
	ErrInvalidStateTransition = errors.New("недопустимый переход статуса")
	// ErrUniquenessViolation — дубликат серийного номера документа.
	ErrUniquenessViolation = errors.New("нарушена уникальность номера документа")
	// ErrArtifactMissing — файл вложения отсутствует в хранилище.
	ErrArtifactMissing = errors.New("файл отсутствует в хранилище")
)
