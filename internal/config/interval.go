package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Interval은 "정수 + 단위" 축약 문법의 주기 설정입니다.
// 허용 단위는 s(초), m(분), h(시간)이고 값은 1 이상 60 이하입니다.
// 예: "30s", "1m", "2h"
type Interval time.Duration

var intervalPattern = regexp.MustCompile(`^(\d+)(s|m|h)$`)

// Decode는 envconfig.Decoder 인터페이스를 구현합니다
func (i *Interval) Decode(value string) error {
	d, err := ParseInterval(value)
	if err != nil {
		return err
	}
	*i = Interval(d)
	return nil
}

// Duration은 time.Duration으로 변환합니다
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

// ParseInterval은 축약 문법의 주기 문자열을 time.Duration으로 변환합니다
func ParseInterval(value string) (time.Duration, error) {
	match := intervalPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("잘못된 주기 형식입니다: %q", value)
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("잘못된 주기 값입니다: %q", value)
	}
	if n < 1 || n > 60 {
		return 0, fmt.Errorf("주기 값은 1 이상 60 이하이어야 합니다: %d", n)
	}

	switch match[2] {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	}

	return 0, fmt.Errorf("지원하지 않는 주기 단위입니다: %q", value)
}
