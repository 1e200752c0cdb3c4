package domain

import (
	"fmt"
	"strings"

	"catalog-import-service/internal/core/feedrow"
)

// FeedFormat - схема входных строк
type FeedFormat string

const (
	FormatGeneric FeedFormat = "generic"
	FormatYandex  FeedFormat = "yandex"
)

// ImportTarget - какие сущности строить из строк фида
type ImportTarget string

const (
	TargetListings  ImportTarget = "listings"
	TargetComplexes ImportTarget = "complexes"
	TargetAll       ImportTarget = "all"
)

func ParseFeedFormat(s string) (FeedFormat, error) {
	switch FeedFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatGeneric:
		return FormatGeneric, nil
	case FormatYandex, "yandex-realty":
		return FormatYandex, nil
	}
	return "", fmt.Errorf("%w: feed format %q", ErrUnsupportedFormat, s)
}

func ParseImportTarget(s string) (ImportTarget, error) {
	switch ImportTarget(strings.ToLower(strings.TrimSpace(s))) {
	case "", TargetListings:
		return TargetListings, nil
	case TargetComplexes:
		return TargetComplexes, nil
	case TargetAll:
		return TargetAll, nil
	}
	return "", fmt.Errorf("%w: import target %q", ErrUnsupportedFormat, s)
}

func (t ImportTarget) IncludesListings() bool  { return t == TargetListings || t == TargetAll }
func (t ImportTarget) IncludesComplexes() bool { return t == TargetComplexes || t == TargetAll }

// ImportRequest - уже материализованная пачка строк одного источника
type ImportRequest struct {
	SourceID string
	Format   FeedFormat
	Target   ImportTarget
	Mapping  feedrow.Mapping
	Rows     []feedrow.Row
}
