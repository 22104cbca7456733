package contracts

import "errors"

// Error taxonomy for the reconciliation core.
// ⭐ SSOT: 코어 에러 분류는 여기서만 정의
var (
	// ErrInvalidRecommendation marks a recommendation entry with missing or
	// out-of-range mandatory fields. 해당 엔트리만 드랍, 패스는 계속된다.
	ErrInvalidRecommendation = errors.New("invalid recommendation")

	// ErrEnrichmentUnavailable marks a failed price or master lookup.
	// 치명 아님 — 해당 필드는 zero-value로 degrade.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// ErrEmptyPass marks a pass that produced zero valid entries.
	// 에러가 아니라 관측용 — 빈 스냅샷은 그대로 발행된다.
	ErrEmptyPass = errors.New("empty pass")

	// ErrNotFound is returned by presenter queries for absent tickers/themes.
	ErrNotFound = errors.New("not found")
)
