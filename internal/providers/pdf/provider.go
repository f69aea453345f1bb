package pdf

import (
	"context"
	"io"
)

// Provider renders household statements.
type Provider interface {
	GenerateStatement(ctx context.Context, data StatementData) (io.Reader, error)
}
