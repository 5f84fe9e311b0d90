package domain

import "fmt"

// 에러 종류별 전파 정책:
//   - DataError, ConstraintError: 현재 사이클의 매매 시도만 중단하고 PASS로 기록
//   - ExecutionError: 주문 미체결, 포지션을 변경하지 않고 건너뜀
//   - CollaboratorError: 사이클 전체를 중단, 원장 기록 없이 다음 사이클로 진행

// DataError는 시장 데이터가 누락되었거나 형식이 잘못된 경우를 표현합니다
type DataError struct {
	Op  string
	Err error
}

// Error는 error 인터페이스를 구현합니다
func (e *DataError) Error() string {
	return fmt.Sprintf("데이터 에러 [작업: %s]: %v", e.Op, e.Err)
}

// Unwrap은 내부 에러를 반환합니다 (errors.Is/As 지원을 위함)
func (e *DataError) Unwrap() error { return e.Err }

// NewDataError는 새로운 DataError를 생성합니다
func NewDataError(op string, err error) *DataError {
	return &DataError{Op: op, Err: err}
}

// ConstraintError는 거래소 제약 조건 아래에서 유효한 주문 수량이 없는 경우를 표현합니다
type ConstraintError struct {
	Symbol string
	Op     string
	Err    error
}

func (e *ConstraintError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("제약 조건 에러 [%s, 작업: %s]: %v", e.Symbol, e.Op, e.Err)
	}
	return fmt.Sprintf("제약 조건 에러 [작업: %s]: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// NewConstraintError는 새로운 ConstraintError를 생성합니다
func NewConstraintError(symbol, op string, err error) *ConstraintError {
	return &ConstraintError{Symbol: symbol, Op: op, Err: err}
}

// ExecutionError는 주문이 거부되었거나 부분 체결된 경우를 표현합니다
type ExecutionError struct {
	Symbol string
	Status string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("주문 실행 에러 [%s, 상태: %s]: %v", e.Symbol, e.Status, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// NewExecutionError는 새로운 ExecutionError를 생성합니다
func NewExecutionError(symbol, status string, err error) *ExecutionError {
	return &ExecutionError{Symbol: symbol, Status: status, Err: err}
}

// CollaboratorError는 거래소/네트워크 등 외부 협력자 호출 실패를 표현합니다
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("외부 호출 에러 [작업: %s]: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// NewCollaboratorError는 새로운 CollaboratorError를 생성합니다
func NewCollaboratorError(op string, err error) *CollaboratorError {
	return &CollaboratorError{Op: op, Err: err}
}
