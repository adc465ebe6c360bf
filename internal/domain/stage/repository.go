package stage

import (
	"context"

	"hirepath/internal/common"
)

type Repository interface {
	List(ctx context.Context) ([]Stage, error)
	GetByID(ctx context.Context, id common.UUID) (*Stage, error)
	First(ctx context.Context) (*Stage, error)
}
