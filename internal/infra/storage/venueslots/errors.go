package venueslots

import "errors"

var (
	// ErrVenueNotFound возвращается, когда агрегат слотов площадки отсутствует
	ErrVenueNotFound = errors.New("venueslots.repository: venue not found")

	// ErrVenueAlreadyExists возвращается при повторной инициализации площадки
	ErrVenueAlreadyExists = errors.New("venueslots.repository: venue already exists")

	// ErrConflict возвращается, когда агрегат изменил другой писатель после чтения снимка
	ErrConflict = errors.New("venueslots.repository: concurrent modification")

	// ErrBuildQuery возвращается при ошибке построения запроса
	ErrBuildQuery = errors.New("venueslots.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения запроса
	ErrExecQuery = errors.New("venueslots.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке чтения результата запроса
	ErrScanRow = errors.New("venueslots.repository: failed to scan row")

	// ErrDecode возвращается, если сохраненный документ не удалось разобрать
	ErrDecode = errors.New("venueslots.repository: failed to decode document")

	// ErrEncode возвращается, если агрегат не удалось сериализовать
	ErrEncode = errors.New("venueslots.repository: failed to encode document")
)
