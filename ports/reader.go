package ports

import (
	"context"

	"spendlens/domain/retail"
)

// DatasetReader loads the transaction dataset from an external source.
// The reader is the only component that touches files; everything
// downstream works on the immutable dataset handle it returns.
type DatasetReader interface {
	Read(ctx context.Context) (*retail.Dataset, error)
}
