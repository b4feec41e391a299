package common

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict") // e.g., user name already taken
	ErrInternalServer     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable") // e.g. revocation lookup down
)

// StorageErrorKind classifies a failure coming out of the database layer.
type StorageErrorKind int

const (
	StorageUnexpected StorageErrorKind = iota
	StorageNotFound
	StorageUniqueViolation
	StorageForeignKeyViolation
	StorageNotNullViolation
	StorageCheckViolation
	StorageConnection
	StorageQuery
)

func (k StorageErrorKind) String() string {
	switch k {
	case StorageNotFound:
		return "not found"
	case StorageUniqueViolation:
		return "unique violation"
	case StorageForeignKeyViolation:
		return "foreign key violation"
	case StorageNotNullViolation:
		return "not null violation"
	case StorageCheckViolation:
		return "check violation"
	case StorageConnection:
		return "connection"
	case StorageQuery:
		return "query"
	default:
		return "unexpected"
	}
}

// StorageError is a classified database failure. Op names the repository method.
type StorageError struct {
	Kind       StorageErrorKind
	Op         string
	Constraint string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError builds a storage error of an explicit kind, for failures
// detected by the repository itself rather than reported by the driver.
func NewStorageError(kind StorageErrorKind, op string, err error) *StorageError {
	return &StorageError{Kind: kind, Op: op, Err: err}
}

// TranslateStorageError classifies err. Already classified errors pass through unchanged.
func TranslateStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	out := &StorageError{Kind: classifyStorageError(err), Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		out.Constraint = pgErr.ConstraintName
	}
	return out
}

// StorageKindOf reports the storage kind carried by err, if any.
func StorageKindOf(err error) (StorageErrorKind, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return StorageUnexpected, false
}

func classifyStorageError(err error) StorageErrorKind {
	if errors.Is(err, sql.ErrNoRows) {
		return StorageNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return StorageUniqueViolation
		case pgerrcode.ForeignKeyViolation:
			return StorageForeignKeyViolation
		case pgerrcode.NotNullViolation:
			return StorageNotNullViolation
		case pgerrcode.CheckViolation:
			return StorageCheckViolation
		case pgerrcode.AdminShutdown, pgerrcode.CrashShutdown, pgerrcode.CannotConnectNow:
			return StorageConnection
		}
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return StorageConnection
		}
		return StorageQuery
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return StorageConnection
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return StorageConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return StorageConnection
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return StorageConnection
	}
	return StorageUnexpected
}

// Aggregate names the consistency boundary a domain error belongs to.
type Aggregate string

const (
	AggregateSolution Aggregate = "solution"
	AggregateComment  Aggregate = "comment"
	AggregateUser     Aggregate = "user"
	AggregateContest  Aggregate = "contest"
	AggregateProblem  Aggregate = "problem"
)

type DomainErrorKind int

const (
	KindBadRequest DomainErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindDBError
)

func (k DomainErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "db error"
	}
}

// DomainError is what use cases return. Message is safe to show to clients
// unless Kind is KindDBError.
type DomainError struct {
	Aggregate Aggregate
	Kind      DomainErrorKind
	Message   string
	Err       error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Aggregate, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Aggregate, e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is lets callers match a DomainError against the package sentinels.
func (e *DomainError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Kind == KindBadRequest
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrInternalServer:
		return e.Kind == KindDBError
	}
	return false
}

func BadRequest(agg Aggregate, format string, args ...any) *DomainError {
	return &DomainError{Aggregate: agg, Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(agg Aggregate, format string, args ...any) *DomainError {
	return &DomainError{Aggregate: agg, Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(agg Aggregate, format string, args ...any) *DomainError {
	return &DomainError{Aggregate: agg, Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(agg Aggregate, format string, args ...any) *DomainError {
	return &DomainError{Aggregate: agg, Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// FromStorage maps a storage failure onto the domain taxonomy of agg.
// Errors that are already domain errors are returned unchanged.
func FromStorage(agg Aggregate, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	kind, _ := StorageKindOf(err)
	switch kind {
	case StorageNotFound:
		return &DomainError{Aggregate: agg, Kind: KindNotFound, Message: fmt.Sprintf("%s not found", agg), Err: err}
	case StorageUniqueViolation:
		return &DomainError{Aggregate: agg, Kind: KindConflict, Message: fmt.Sprintf("%s already exists", agg), Err: err}
	default:
		return &DomainError{Aggregate: agg, Kind: KindDBError, Message: "database error", Err: err}
	}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text a client may see for err. Internal failures
// are reduced to a generic message; the cause belongs in the server log.
func PublicMessage(err error) string {
	switch HTTPStatusFromError(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	case http.StatusUnauthorized:
		return "unauthorized"
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
