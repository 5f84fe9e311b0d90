package position

import "errors"

var (
	// ErrPositionExists는 이미 보유 중인 포지션이 있을 때 반환됩니다
	ErrPositionExists = errors.New("이미 보유 중인 포지션이 있습니다")

	// ErrNoPosition은 보유 중인 포지션이 없을 때 반환됩니다
	ErrNoPosition = errors.New("보유 중인 포지션이 없습니다")
)
