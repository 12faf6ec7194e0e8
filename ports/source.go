package ports

import (
	"context"

	"barstack/domain/core"
	"barstack/domain/dataset"
)

// SourceReader fetches and decodes one dataset source into raw rows.
type SourceReader interface {
	Read(ctx context.Context, src dataset.Source) (*dataset.RawTable, error)
}

// HeightNotifier tells an embedding page that the chart's content height changed.
type HeightNotifier interface {
	NotifyHeight(session core.SessionID, height float64)
}
