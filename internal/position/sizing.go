package position

import (
	"math"
	"strconv"
	"strings"

	"github.com/assist-by/surfer/internal/domain"
)

// RoundStep은 수량을 거래소 최소 단위의 배수로 내림합니다.
// 부동소수점 곱셈 오차가 단위 자릿수를 넘지 않도록 보정합니다.
func RoundStep(quantity, stepSize float64) float64 {
	if stepSize <= 0 {
		return quantity
	}

	steps := math.Floor(quantity / stepSize)
	value := steps * stepSize

	shift := math.Pow(10, float64(stepPrecision(stepSize)))
	return math.Round(value*shift) / shift
}

// stepPrecision은 최소 단위의 소수점 자릿수를 반환합니다
func stepPrecision(stepSize float64) int {
	s := strconv.FormatFloat(stepSize, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// CalculateBuyQuantity는 매수 수량을 계산합니다.
// 고정 금액 모드에서는 주문 금액이 설정값을 넘지 않도록 한 단위를 빼고,
// 고정 비율 모드에서는 결제 자산 잔고의 지정 비율만큼 매수합니다.
// 제약 조건을 만족하는 수량이 없으면 0을 반환합니다.
func CalculateBuyQuantity(secondaryBalance, price float64, constraints *domain.SymbolConstraints,
	useFixedValue bool, fixedValue, fixedPercent float64) float64 {

	if price <= 0 {
		return 0
	}

	var quantity float64
	if useFixedValue {
		quantity = RoundStep(fixedValue/price-constraints.StepSize, constraints.StepSize)
	} else {
		quantity = RoundStep(secondaryBalance/price/100*fixedPercent, constraints.StepSize)
	}

	if !feasible(quantity, price, constraints) {
		return 0
	}
	return quantity
}

// CalculateSellQuantity는 매도 수량을 계산합니다.
// 보유 잔고 전체를 최소 단위로 내림하며, 제약 조건을 만족하지 못하면 0을 반환합니다.
func CalculateSellQuantity(primaryBalance, price float64, constraints *domain.SymbolConstraints) float64 {
	quantity := RoundStep(primaryBalance, constraints.StepSize)

	if !feasible(quantity, price, constraints) {
		return 0
	}
	return quantity
}

// feasible은 수량이 거래소 제약 조건을 만족하는지 확인합니다
func feasible(quantity, price float64, constraints *domain.SymbolConstraints) bool {
	if quantity <= 0 {
		return false
	}
	if quantity < constraints.MinQuantity {
		return false
	}
	if quantity*price < constraints.MinNotional {
		return false
	}
	return true
}
